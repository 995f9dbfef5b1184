package common

import (
	"errors"
	"fmt"
)

var (
	// Dataset errors. Fatal for the request: no dataset, no view.
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// Identity errors. Kept distinct so operators can tell a bad token
	// from a profile that was never provisioned.
	ErrIdentityUnresolved = errors.New("identity unresolved")
	ErrClientNotFound     = errors.New("client not found")

	// Identity provider errors.
	ErrAuth            = errors.New("authentication failed")
	ErrAuthUnavailable = errors.New("identity provider unavailable")
	ErrUnauthorized    = errors.New("unauthorized")

	// Input errors caught before any network or dataset call.
	ErrValidation = errors.New("validation error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AuthError carries the identity provider's rejection detail so it can be
// shown to the user verbatim.
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (status %d)", ErrAuth.Error(), e.Status)
	}
	return e.Detail
}

func (e *AuthError) Unwrap() error { return ErrAuth }

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand for &ValidationError{...}.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
