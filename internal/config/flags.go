package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
)

var (
	errAddressFormat = errors.New("address must look like host:port")
	errPortRange     = errors.New("port must be within 1-65535")
	errHostNotIP     = errors.New("host must be localhost or an IP address")
)

// NetAddress is a host:port pair usable as a flag.Value. An empty host means
// every interface.
type NetAddress struct {
	Host string
	Port int
}

// String formats the address back to host:port, or "" when unset.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set implements flag.Value.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("%w: %q", errAddressFormat, s)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return fmt.Errorf("%w: %q", errAddressFormat, s)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: got %d", errPortRange, port)
	}
	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: %q", errHostNotIP, host)
	}

	a.Host, a.Port = host, port
	return nil
}

// parseFlags reads the server command line. Usage:
//
//	-a                 HTTP address host:port
//	-grpc-address      gRPC address host:port
//	-d                 database DSN
//	-db-driver         pgx, sqlite3 or memory
//	-c, -config        JSON config file
//	-token-sign-key    JWT signing key
//	-token-issuer      JWT issuer
//	-token-duration    JWT lifetime, e.g. 1h
//	-request-timeout   per-request timeout, e.g. 30s
//	-log-level         zerolog level name
//	-log-file          rotating log file
//	-max-folder-depth  folder nesting limit
//	-purge-schedule    cron spec of the purge job
//	-purge-retention   how long tombstones are kept, e.g. 720h
//	-metrics           serve /metrics
func parseFlags(args []string) (*StructuredConfig, error) {
	var (
		cfg        StructuredConfig
		httpAddr   NetAddress
		grpcAddr   NetAddress
		configPath string
	)

	fs := flag.NewFlagSet("vault-sync-server", flag.ContinueOnError)

	fs.Var(&httpAddr, "a", "HTTP address host:port")
	fs.Var(&grpcAddr, "grpc-address", "gRPC address host:port")
	fs.StringVar(&configPath, "c", "", "JSON config file")
	fs.StringVar(&configPath, "config", "", "JSON config file (same as -c)")

	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.DB.Driver, "db-driver", "", "Storage driver: pgx, sqlite3 or memory")
	fs.IntVar(&cfg.Storage.MaxFolderDepth, "max-folder-depth", 0, "Folder nesting limit")

	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "JWT signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "JWT issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "JWT lifetime")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Rotating log file")

	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Per-request timeout")

	fs.StringVar(&cfg.Workers.PurgeSchedule, "purge-schedule", "", "Cron spec of the purge job")
	fs.DurationVar(&cfg.Workers.PurgeRetention, "purge-retention", 0, "Retention of soft-deleted items")

	fs.BoolVar(&cfg.Telemetry.MetricsEnabled, "metrics", false, "Serve prometheus metrics on /metrics")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing server flags: %w", err)
	}

	cfg.Server.HTTPAddress = httpAddr.String()
	cfg.Server.GRPCAddress = grpcAddr.String()
	cfg.JSONFilePath = configPath

	return &cfg, nil
}
