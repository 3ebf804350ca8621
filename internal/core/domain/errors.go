package domain

import "errors"

var (
	ErrValidation         = errors.New("username and password are required")
	ErrNoUpdateData       = errors.New("no data provided")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidUsername    = errors.New("username cannot be empty")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("missing authorization header")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrForbidden          = errors.New("access forbidden: insufficient permissions")
)
