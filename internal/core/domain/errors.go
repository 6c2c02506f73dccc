package domain

import "errors"

var (
	// ErrNotFound means no account exists for the given email or id.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidCredentials means the account exists but the password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict means the email is already registered.
	ErrConflict = errors.New("user already exists")

	// ErrUnauthenticated covers malformed, expired or foreign-signed tokens.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrMisconfigured is a startup-only error: the process must not serve.
	ErrMisconfigured = errors.New("misconfigured")
)
