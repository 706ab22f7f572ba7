package config

import (
	"flag"
	"fmt"
	"time"

	"dario.cat/mergo"
)

const (
	defaultClientRequestTimeout = 15 * time.Second
	defaultClientSyncInterval   = 5 * time.Minute
	defaultClientRetries        = 2
)

// ClientConfig configures the command-line sync client.
type ClientConfig struct {
	// ServerAddress is the base URL (or host:port) of the HTTP API.
	// Env: CLIENT_SERVER_ADDRESS
	ServerAddress string `env:"SERVER_ADDRESS"`

	// GRPCAddress, when set, sends sync and history calls over gRPC instead
	// of HTTP. Authentication still goes through the HTTP API.
	// Env: CLIENT_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the timeout of every outbound request.
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Login and Password authenticate the client.
	// Env: CLIENT_LOGIN, CLIENT_PASSWORD
	Login    string `env:"LOGIN"`
	Password string `env:"PASSWORD"`

	// DeviceID is sent in the X-Device-ID header for the sync history.
	// Env: CLIENT_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// SyncInterval is the pause between two syncs of the watch command.
	// Env: CLIENT_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// Retries is how many times a request failing with a transport error or
	// 502/503/504 is repeated.
	// Env: CLIENT_RETRIES
	Retries int `env:"RETRIES"`

	// LogFile receives client logs through a rotating writer.
	// Env: CLIENT_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// GetClientConfig builds the client configuration from CLIENT_* environment
// variables and the given command-line arguments. Environment values win
// over flags. It returns the positional arguments left after flag parsing.
func GetClientConfig(args []string) (*ClientConfig, []string, error) {
	envCfg := new(ClientConfig)
	if err := parseEnvWithPrefix(envCfg, "CLIENT_"); err != nil {
		return nil, nil, err
	}

	flagCfg := new(ClientConfig)
	fs := flag.NewFlagSet("vault-sync-client", flag.ContinueOnError)
	fs.StringVar(&flagCfg.ServerAddress, "server", "", "Server address")
	fs.StringVar(&flagCfg.GRPCAddress, "grpc", "", "gRPC server address for sync calls")
	fs.DurationVar(&flagCfg.RequestTimeout, "timeout", 0, "Request timeout")
	fs.DurationVar(&flagCfg.SyncInterval, "interval", 0, "Pause between syncs of the watch command")
	fs.IntVar(&flagCfg.Retries, "retries", 0, "Retries of failed requests")
	fs.StringVar(&flagCfg.Login, "login", "", "Account login")
	fs.StringVar(&flagCfg.Password, "password", "", "Account password")
	fs.StringVar(&flagCfg.DeviceID, "device", "", "Device identifier")
	fs.StringVar(&flagCfg.LogFile, "log-file", "", "Log file path")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing client flags: %w", err)
	}

	cfg := new(ClientConfig)
	for _, src := range []*ClientConfig{envCfg, flagCfg, clientDefaults()} {
		if err := mergo.Merge(cfg, src); err != nil {
			return nil, nil, fmt.Errorf("error merging client configs: %w", err)
		}
	}

	return cfg, fs.Args(), cfg.validate()
}

func clientDefaults() *ClientConfig {
	return &ClientConfig{
		RequestTimeout: defaultClientRequestTimeout,
		SyncInterval:   defaultClientSyncInterval,
		Retries:        defaultClientRetries,
	}
}
