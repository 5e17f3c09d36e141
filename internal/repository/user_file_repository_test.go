package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptem/internal/domain"
)

func newFileRepo(t *testing.T) (*UserFileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewUserFileRepository(path), path
}

func TestUserFileRepository_CreateAssignsSequentialIDs(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	first := &domain.User{Email: "a@example.com", Password: "hash-a"}
	second := &domain.User{Email: "b@example.com", Password: "hash-b"}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestUserFileRepository_IDIsMaxPlusOne(t *testing.T) {
	repo, path := newFileRepo(t)
	seed := `[{"id": 7, "email": "old@example.com", "password": "x", "isAdmin": true}]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	user := &domain.User{Email: "new@example.com", Password: "y"}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, int64(8), user.ID)
}

func TestUserFileRepository_DuplicateEmail(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "dup@example.com", Password: "h"}))
	err := repo.Create(ctx, &domain.User{Email: "dup@example.com", Password: "h2"})

	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserFileRepository_GetByEmail(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "me@example.com", Password: "h", IsAdmin: true}))

	got, err := repo.GetByEmail(ctx, "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h", got.Password)
	assert.True(t, got.IsAdmin)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserFileRepository_MissingFileIsEmpty(t *testing.T) {
	repo, _ := newFileRepo(t)

	users, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserFileRepository_CorruptFile(t *testing.T) {
	repo, path := newFileRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := repo.GetAll(context.Background())
	assert.Error(t, err)
}

func TestUserFileRepository_FileFormat(t *testing.T) {
	repo, path := newFileRepo(t)
	require.NoError(t, repo.Create(context.Background(), &domain.User{Email: "f@example.com", Password: "hash"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, float64(1), raw[0]["id"])
	assert.Equal(t, "f@example.com", raw[0]["email"])
	assert.Equal(t, "hash", raw[0]["password"])
	assert.Equal(t, false, raw[0]["isAdmin"])
}

// Two repositories sharing a file each do their own read-modify-write.
// A writer that loaded the list before the other's save overwrites it.
func TestUserFileRepository_FileIsWorldReadable(t *testing.T) {
	repo, path := newFileRepo(t)

	require.NoError(t, repo.Create(context.Background(), &domain.User{Email: "a@example.com", Password: "h"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestUserFileRepository_LostUpdateAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	a := NewUserFileRepository(path)
	b := NewUserFileRepository(path)
	ctx := context.Background()

	staleList, err := a.load()
	require.NoError(t, err)

	require.NoError(t, b.Create(ctx, &domain.User{Email: "b@example.com", Password: "h"}))

	lateUser := &domain.User{ID: nextID(staleList), Email: "a@example.com", Password: "h"}
	require.NoError(t, a.save(append(staleList, lateUser)))

	users, err := b.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)

	_, err = b.GetByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserFileRepository_ContextCanceled(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, &domain.User{Email: "x@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}
