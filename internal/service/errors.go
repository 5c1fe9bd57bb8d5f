package service

import "errors"

var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrEmailExists         = errors.New("email is already in use")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
