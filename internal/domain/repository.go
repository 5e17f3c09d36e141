package domain

import "context"

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create stores a new user and assigns its ID.
	// Returns ErrUserExists when the email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by email.
	// Returns ErrUserNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetAll retrieves all users ordered by ID
	GetAll(ctx context.Context) ([]*User, error)
}
