package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"cryptem/internal/domain"
)

// UserFileRepository stores users as a JSON array in a single file.
// Every mutation reads the whole file and rewrites it. The mutex only
// serializes callers sharing this instance; separate instances (or
// processes) pointing at the same file can still lose updates.
type UserFileRepository struct {
	path string
	mu   sync.Mutex
}

// NewUserFileRepository creates a new file-backed UserRepository
func NewUserFileRepository(path string) *UserFileRepository {
	return &UserFileRepository{path: path}
}

// Create creates a new user with ID max+1
func (r *UserFileRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}

	user.ID = nextID(users)
	users = append(users, user)

	return r.save(users)
}

// GetByEmail retrieves a user by email
func (r *UserFileRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	users, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}

	return nil, domain.ErrUserNotFound
}

// GetAll retrieves all users ordered by ID
func (r *UserFileRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	users, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// load reads the whole user list. A missing or empty file is an empty list.
func (r *UserFileRepository) load() ([]*domain.User, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*domain.User{}, nil
		}
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	if len(data) == 0 {
		return []*domain.User{}, nil
	}

	var users []*domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users file: %w", err)
	}

	return users, nil
}

// usersFileMode is applied before rename; CreateTemp would leave 0600
const usersFileMode = 0o644

// save rewrites the whole user list via a temp file and rename
func (r *UserFileRepository) save(users []*domain.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp users file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(usersFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set users file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close users file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace users file: %w", err)
	}

	return nil
}

func nextID(users []*domain.User) int64 {
	var maxID int64
	for _, u := range users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}
