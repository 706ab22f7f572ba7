// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want StructuredConfig
	}{
		{
			name: "nothing set",
			want: StructuredConfig{},
		},
		{
			name: "server essentials",
			vars: map[string]string{
				"APP_TOKEN_SIGN_KEY": "sign",
				"SERVER_ADDRESS":     "localhost:8080",
			},
			want: StructuredConfig{
				App:    App{TokenSignKey: "sign"},
				Server: Server{HTTPAddress: "localhost:8080"},
			},
		},
		{
			name: "every variable",
			vars: map[string]string{
				"CONFIG":                    "/etc/vault/config.json",
				"APP_TOKEN_SIGN_KEY":        "sign",
				"APP_TOKEN_ISSUER":          "vault",
				"APP_TOKEN_DURATION":        "1h",
				"APP_VERSION":               "1.2.3",
				"APP_LOG_LEVEL":             "info",
				"APP_LOG_FILE":              "/var/log/vault.log",
				"SERVER_ADDRESS":            "localhost:8080",
				"SERVER_GRPC_ADDRESS":       "localhost:9090",
				"SERVER_REQUEST_TIMEOUT":    "30s",
				"STORAGE_DB_DRIVER":         "sqlite3",
				"STORAGE_DB_DATABASE_URI":   "/tmp/vault.db",
				"STORAGE_DB_MAX_RETRIES":    "7",
				"STORAGE_MAX_FOLDER_DEPTH":  "3",
				"WORKERS_PURGE_SCHEDULE":    "@hourly",
				"WORKERS_PURGE_RETENTION":   "1h30m",
				"TELEMETRY_METRICS_ENABLED": "true",
			},
			want: StructuredConfig{
				App: App{
					TokenSignKey:  "sign",
					TokenIssuer:   "vault",
					TokenDuration: time.Hour,
					Version:       "1.2.3",
					LogLevel:      "info",
					LogFile:       "/var/log/vault.log",
				},
				Storage: Storage{
					DB:             DB{Driver: DriverSQLite, DSN: "/tmp/vault.db", MaxRetries: 7},
					MaxFolderDepth: 3,
				},
				Server: Server{
					HTTPAddress:    "localhost:8080",
					GRPCAddress:    "localhost:9090",
					RequestTimeout: 30 * time.Second,
				},
				Workers:      Workers{PurgeSchedule: "@hourly", PurgeRetention: 90 * time.Minute},
				Telemetry:    Telemetry{MetricsEnabled: true},
				JSONFilePath: "/etc/vault/config.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvVars(t, tt.vars)

			var got StructuredConfig
			require.NoError(t, parseEnv(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEnv_RejectsMalformedValues(t *testing.T) {
	for key, value := range map[string]string{
		"APP_TOKEN_DURATION":        "a while",
		"STORAGE_MAX_FOLDER_DEPTH":  "deep",
		"TELEMETRY_METRICS_ENABLED": "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			setEnvVars(t, map[string]string{key: value})

			err := parseEnv(&StructuredConfig{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "error getting env configs")
		})
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	setEnvVars(t, map[string]string{
		"CLIENT_SERVER_ADDRESS":  "http://localhost:8080",
		"CLIENT_REQUEST_TIMEOUT": "5s",
		"CLIENT_DEVICE_ID":       "laptop",
		"SERVER_ADDRESS":         "not-for-the-client:1",
	})

	var cfg ClientConfig
	require.NoError(t, parseEnvWithPrefix(&cfg, "CLIENT_"))

	assert.Equal(t, ClientConfig{
		ServerAddress:  "http://localhost:8080",
		RequestTimeout: 5 * time.Second,
		DeviceID:       "laptop",
	}, cfg)
}

// setEnvVars clears every variable the config reads, then sets vars.
// t.Setenv restores the previous values when the test ends.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, k := range knownEnvKeys {
		t.Setenv(k, "")
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

var knownEnvKeys = []string{
	"CONFIG",

	"APP_TOKEN_SIGN_KEY",
	"APP_TOKEN_ISSUER",
	"APP_TOKEN_DURATION",
	"APP_VERSION",
	"APP_LOG_LEVEL",
	"APP_LOG_FILE",

	"SERVER_ADDRESS",
	"SERVER_GRPC_ADDRESS",
	"SERVER_REQUEST_TIMEOUT",

	"STORAGE_DB_DRIVER",
	"STORAGE_DB_DATABASE_URI",
	"STORAGE_DB_MAX_RETRIES",
	"STORAGE_MAX_FOLDER_DEPTH",

	"WORKERS_PURGE_SCHEDULE",
	"WORKERS_PURGE_RETENTION",

	"TELEMETRY_METRICS_ENABLED",

	"CLIENT_SERVER_ADDRESS",
	"CLIENT_GRPC_ADDRESS",
	"CLIENT_REQUEST_TIMEOUT",
	"CLIENT_SYNC_INTERVAL",
	"CLIENT_RETRIES",
	"CLIENT_LOGIN",
	"CLIENT_PASSWORD",
	"CLIENT_DEVICE_ID",
	"CLIENT_LOG_FILE",
}
