// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container of the vault
// sync server. It is populated by merging environment variables,
// command-line flags and an optional JSON file, then completed with defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters, the application version and logging
	// settings.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen addresses and timeouts of the HTTP and gRPC
	// servers.
	Server Server `envPrefix:"SERVER_"`

	// Workers configures background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// Telemetry toggles the metrics pipeline.
	Telemetry Telemetry `envPrefix:"TELEMETRY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is exposed via GET /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile, when set, sends logs to a rotating file instead of stdout.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`

	// MaxFolderDepth limits folder nesting.
	// Env: STORAGE_MAX_FOLDER_DEPTH
	MaxFolderDepth int `env:"MAX_FOLDER_DEPTH"`
}

// DB holds connection settings for the storage backend.
type DB struct {
	// Driver is one of [DriverPostgres], [DriverSQLite] or [DriverMemory].
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the data source name passed to sql.Open. For SQLite it is a
	// file path. Unused by the in-memory driver.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// MaxRetries is the number of attempts made for a storage operation
	// that fails with a retryable error.
	// Env: STORAGE_DB_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`
}

// Supported storage drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
	DriverMemory   = "memory"
)

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address of the HTTP server ("host:port").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC server ("host:port").
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds the processing time of a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// PurgeSchedule is the cron spec of the soft-delete purge job.
	// Env: WORKERS_PURGE_SCHEDULE
	PurgeSchedule string `env:"PURGE_SCHEDULE"`

	// PurgeRetention is how long soft-deleted items are kept before they
	// are physically removed.
	// Env: WORKERS_PURGE_RETENTION
	PurgeRetention time.Duration `env:"PURGE_RETENTION"`
}

// Telemetry toggles the metrics pipeline.
type Telemetry struct {
	// MetricsEnabled exposes Prometheus metrics on GET /metrics.
	// Env: TELEMETRY_METRICS_ENABLED
	MetricsEnabled bool `env:"METRICS_ENABLED"`
}

// GetStructuredConfig loads, merges, completes and validates the server
// configuration. For every field the first source that sets it wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		withDefaults().
		build()
}
