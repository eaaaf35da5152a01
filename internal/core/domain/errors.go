package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthRequired indicates the session holds no access token.
	ErrAuthRequired = errors.New("authentication required")

	// ErrStateMismatch indicates the callback state does not match the one issued at login.
	ErrStateMismatch = errors.New("invalid state parameter")

	// ErrAccessDenied indicates the provider refused the authorization request.
	ErrAccessDenied = errors.New("access denied")

	// Provider Errors.

	// ErrUnauthorized indicates the provider rejected the access token.
	ErrUnauthorized = errors.New("provider: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions for the requested scope.
	ErrForbidden = errors.New("provider: forbidden (insufficient permissions)")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// AccessDeniedError carries the error fields the provider sent to the callback.
type AccessDeniedError struct {
	Reason      string
	Description string
}

// Error implements the error interface.
func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("Access denied: reason=%s error=%s", e.Reason, e.Description)
}

// Unwrap allows errors.Is(err, ErrAccessDenied).
func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}
