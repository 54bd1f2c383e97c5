package domain

import "errors"

// Sentinel errors propagated as values through services and translated to
// HTTP status codes in exactly one place (internal/api error handler).
var (
	// ErrValidation covers missing or malformed required fields.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers every authentication failure: unknown
	// email, wrong password, bad one-time code. Callers must not be able to
	// distinguish which condition failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists signals a duplicate username or email, surfaced by the
	// store's uniqueness constraints.
	ErrUserExists = errors.New("user already exists")

	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrLogNotFound     = errors.New("log entry not found")
)
