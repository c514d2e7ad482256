package domain

import "errors"

// Account errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrWeakPassword   = errors.New("password must be at least 6 characters")
	ErrUserNotFound   = errors.New("user not found")

	// ErrInvalidCredentials covers unknown email, wrong password and
	// inactive accounts. Callers must not distinguish the three, so the
	// API cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Token and authorization errors
var (
	ErrMissingToken = errors.New("authorization token required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("forbidden")
)

// Catalog errors
var (
	ErrProductNotFound = errors.New("product not found")
)

// Storage errors
var (
	ErrStorageTimeout     = errors.New("storage timeout")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
