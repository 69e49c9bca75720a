// Package common defines shared constants and sentinel errors used across
// server and client layers of MyLibrary. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Credential verification failures.
	ErrMissingCredentials = errors.New("missing credentials")
	ErrBadSecret          = errors.New("bad secret")
	ErrStoreError         = errors.New("user store error")

	// Session token failures.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Access guard denials.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)
