package services

import "errors"

var (
	ErrForbidden          = errors.New("not allowed to access this resource")
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already in use")
	ErrStale              = errors.New("superseded by a newer request")
)
