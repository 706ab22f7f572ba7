package config

import "errors"

// Validation errors returned when a required configuration group is
// incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a missing token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")

	// ErrInvalidServerConfigs indicates that no transport is configured.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")

	// ErrInvalidStorageConfigs indicates an unknown driver, a missing DSN or
	// a non-positive folder depth limit.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidWorkerConfigs indicates an unparsable purge schedule or a
	// non-positive retention.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")

	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing server address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
