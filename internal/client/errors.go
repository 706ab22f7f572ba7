package client

import "errors"

var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrMissingCredentials = errors.New("login and password are required")
	ErrSyncFailed         = errors.New("sync failed")
)
