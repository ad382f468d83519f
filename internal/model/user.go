package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByProviderID(ctx context.Context, provider Provider, providerID string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	AttachProviderID(ctx context.Context, id uuid.UUID, provider Provider, providerID string) (User, error)
}

// User represents a stored user with its authentication methods.
// PasswordHash is empty for accounts created through an OAuth provider.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	GoogleID     string
	GitHubID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can sign in with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Sanitized returns a copy of the user with the password hash stripped,
// safe to bind to a request context or serialize into a response.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
