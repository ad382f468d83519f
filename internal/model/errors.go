package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidToken is the single opaque failure for malformed, badly signed
	// or expired tokens. Callers must not learn which of the three it was.
	ErrInvalidToken = errors.New("invalid token")
)
