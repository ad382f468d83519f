// Package apperror defines the tagged error variant shared by services and
// HTTP handlers. Each error carries a kind, a client-facing message and the
// HTTP status it maps to, so the terminal error handler can translate
// exhaustively instead of inspecting ad hoc fields.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindInternal     Kind = "internal"
)

// Error is an application error with an HTTP mapping.
type Error struct {
	Kind       Kind
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	return e.Message
}

// From extracts an *Error from err, if it wraps one.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewConflict creates a duplicate-resource error. Clients handle duplicate
// emails as a bad request, so the conflict kind maps to 400.
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewNotFound creates a missing-resource error.
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// NewUnauthorized creates an authentication failure error.
func NewUnauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewValidation creates an invalid-input error.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewInternal creates a generic server error. The message is what the client
// sees; internal details belong in logs, not here.
func NewInternal() *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", HTTPStatus: http.StatusInternalServerError}
}
