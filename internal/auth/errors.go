package auth

import "errors"

// Authentication and authorization failure kinds, independent of the HTTP
// layer. The handler package maps them to status codes.
var (
	// Extractor pipeline failures, all 401.
	ErrMissingToken   = errors.New("missing authorization token")
	ErrMalformedToken = errors.New("malformed authorization header")
	ErrIllegalToken   = errors.New("token signature or encoding is invalid")
	ErrExpiredToken   = errors.New("token has expired")

	// Token valid, role set insufficient. 403.
	ErrNotAuthorized = errors.New("not authorized")

	// Token valid, subject revoked. Denied with a 401 that carries a
	// distinct error code so it cannot be confused with a signature failure.
	ErrBanned = errors.New("user is banned")

	// Login path failures.
	ErrUnknownUser       = errors.New("user name does not exist")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrAccountLocked     = errors.New("account is temporarily locked")

	// Internal failures, all 500.
	ErrHashFormat  = errors.New("stored password hash is malformed")
	ErrTokenSign   = errors.New("token signing failed")
	ErrUnavailable = errors.New("authentication backend unavailable")
)
