package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailDomainDenied   = errors.New("email domain is not allowed")
	ErrValidation          = errors.New("validation error")
)
