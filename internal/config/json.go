package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the server configuration.
// Durations are written as Go duration strings ("15m") or nanoseconds.
type StructuredJSONConfig struct {
	App       jsonApp       `json:"app,omitempty"`
	Storage   jsonStorage   `json:"storage,omitempty"`
	Server    jsonServer    `json:"server,omitempty"`
	Workers   jsonWorkers   `json:"workers,omitempty"`
	Telemetry jsonTelemetry `json:"telemetry,omitempty"`
}

type jsonApp struct {
	TokenSignKey  string   `json:"token_sign_key"`
	TokenIssuer   string   `json:"token_issuer"`
	TokenDuration Duration `json:"token_duration"`
	Version       string   `json:"version"`
	LogLevel      string   `json:"log_level"`
	LogFile       string   `json:"log_file"`
}

type jsonDB struct {
	Driver     string `json:"driver"`
	DSN        string `json:"dsn"`
	MaxRetries int    `json:"max_retries"`
}

type jsonStorage struct {
	DB             jsonDB `json:"db,omitempty"`
	MaxFolderDepth int    `json:"max_folder_depth"`
}

type jsonServer struct {
	HTTPAddress    string   `json:"http_address"`
	GRPCAddress    string   `json:"grpc_address"`
	RequestTimeout Duration `json:"request_timeout"`
}

type jsonWorkers struct {
	PurgeSchedule  string   `json:"purge_schedule"`
	PurgeRetention Duration `json:"purge_retention"`
}

type jsonTelemetry struct {
	MetricsEnabled bool `json:"metrics_enabled"`
}

func (j StructuredJSONConfig) structured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:  j.App.TokenSignKey,
			TokenIssuer:   j.App.TokenIssuer,
			TokenDuration: j.App.TokenDuration.Std(),
			Version:       j.App.Version,
			LogLevel:      j.App.LogLevel,
			LogFile:       j.App.LogFile,
		},
		Storage: Storage{
			DB:             DB(j.Storage.DB),
			MaxFolderDepth: j.Storage.MaxFolderDepth,
		},
		Server: Server{
			HTTPAddress:    j.Server.HTTPAddress,
			GRPCAddress:    j.Server.GRPCAddress,
			RequestTimeout: j.Server.RequestTimeout.Std(),
		},
		Workers: Workers{
			PurgeSchedule:  j.Workers.PurgeSchedule,
			PurgeRetention: j.Workers.PurgeRetention.Std(),
		},
		Telemetry: Telemetry(j.Telemetry),
	}
}

func parseJSON(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}

	var raw StructuredJSONConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error decoding json configs from %s: %w", path, err)
	}

	return raw.structured(), nil
}

// Duration is a time.Duration that decodes from either "1h30m" or an
// integer number of nanoseconds.
type Duration time.Duration

// Std converts d back to a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", text, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var nanos int64
	if err := json.Unmarshal(b, &nanos); err != nil {
		return fmt.Errorf("invalid duration: %s", b)
	}
	*d = Duration(nanos)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Std().String())
}
