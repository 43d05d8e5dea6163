package domain

import "context"

// User is an account owned by the identity provider. This service only reads it.
// swagger:model User
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Photo     string `json:"photo"`
}

// TokenVerifier verifies a bearer token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository is the read side of the user directory.
type UserRepository interface {
	// GetByID returns the user or ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)
}
