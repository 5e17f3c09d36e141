package dto

import "cryptem/internal/domain"

// UserOutput represents user details in API responses
type UserOutput struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// UsersResponse is the admin user listing
type UsersResponse struct {
	Users []UserOutput `json:"users"`
	Count int          `json:"count"`
}

// NewUserOutput converts a public user view
func NewUserOutput(u domain.PublicUser) *UserOutput {
	return &UserOutput{
		ID:      u.ID,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}
