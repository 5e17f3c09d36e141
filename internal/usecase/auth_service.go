package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"cryptem/internal/domain"
)

// PasswordCost is the bcrypt cost used for new passwords
const PasswordCost = 10

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateJWT(user domain.PublicUser) (string, error)
}

// AuthService handles registration and login
type AuthService struct {
	users    domain.UserRepository
	tokens   TokenIssuer
	notifier domain.Notifier
	log      logrus.FieldLogger
}

// NewAuthService creates a new AuthService. notifier may be nil.
func NewAuthService(
	users domain.UserRepository,
	tokens TokenIssuer,
	notifier domain.Notifier,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		log:      log.WithField("component", "auth"),
	}
}

// Register creates a regular (non-admin) user
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.create(ctx, email, password, false)
	if err != nil {
		return nil, err
	}

	s.notifyRegistration(user.Public())
	return user, nil
}

// CreateAdmin creates an admin user
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	return s.create(ctx, email, password, true)
}

func (s *AuthService) create(ctx context.Context, email, password string, isAdmin bool) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:    email,
		Password: string(hash),
		IsAdmin:  isAdmin,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "admin": isAdmin}).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateJWT(user.Public())
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// ListUsers returns every user without password hashes
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// notifyRegistration runs off the request path; failures are only logged
func (s *AuthService) notifyRegistration(user domain.PublicUser) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.NotifyRegistration(ctx, user); err != nil {
			s.log.WithError(err).WithField("user_id", user.ID).Warn("Registration notification failed")
		}
	}()
}
