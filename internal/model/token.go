package model

import "github.com/google/uuid"

// TokenManager issues and validates identity assertions.
type TokenManager interface {
	Issue(userID uuid.UUID) (string, error)
	Parse(token string) (uuid.UUID, error)
}
