package domain

import "errors"

// Authentication and authorization failures.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserDisabled          = errors.New("user disabled")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrSubjectUnresolved     = errors.New("token subject unresolved")

	// ErrUnauthorized is the single outcome the guard reports for every
	// token-related failure. The underlying cause stays wrapped for logs.
	ErrUnauthorized = errors.New("unauthorized")
)

// Storage failures.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrMenuItemExists   = errors.New("menu item already exists")
	ErrDuplicateRequest = errors.New("duplicate request")
)
