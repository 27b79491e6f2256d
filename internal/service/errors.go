package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials covers an unknown email, a wrong password and an
	// inactive account alike.
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

	ErrTokenIsExpiredOrInvalid = errors.New("invalid token")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrImageStorageNotConfigured = errors.New("image storage is not configured")
)
