package service

import "errors"

var (
	// ErrUserNotFound is returned when a sync is requested for an unknown user.
	ErrUserNotFound = errors.New("user not found")

	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
