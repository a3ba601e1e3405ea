package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLoginAlreadyExists = errors.New("login name already used")
	ErrEmailAlreadyExists = errors.New("email is already in use")
)

// Service-level errors
var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserNotActivated   = errors.New("user account is not activated")
)
