package auth

import "errors"

var (
	// ErrMissingField signals a required input that is absent or empty,
	// rejected before any store lookup.
	ErrMissingField = errors.New("auth: missing field")
	// ErrInvalidCredentials signals a failed login lookup.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidSession signals a token that is unbound or bound to a
	// missing or inactive user.
	ErrInvalidSession = errors.New("auth: invalid session")
	// ErrNotFound signals a lookup of a non-existent entity.
	ErrNotFound = errors.New("auth: not found")
	// ErrConflict signals a uniqueness violation (duplicate username).
	ErrConflict = errors.New("auth: already exists")
)
