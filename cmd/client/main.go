package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/client"
	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, args, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(2)
	}

	log := logger.NewClientLogger("go-vault-sync-client", cfg.LogFile)
	log.Debug().Str("version", buildVersion).Str("date", buildDate).Str("commit", buildCommit).Msg("client started")

	serverAdapter, err := adapter.NewHTTPServerAdapter(*cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create server adapter: %v\n", err)
		os.Exit(2)
	}

	var syncAdapter adapter.SyncAdapter
	if cfg.GRPCAddress != "" {
		grpcAdapter, err := adapter.NewGRPCSyncAdapter(cfg.GRPCAddress, serverAdapter, cfg.DeviceID, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create grpc adapter: %v\n", err)
			os.Exit(2)
		}
		defer grpcAdapter.Close()
		syncAdapter = grpcAdapter
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app := client.NewApp(serverAdapter, syncAdapter, cfg, os.Stdin, os.Stdout, log)
	if err = app.Run(ctx, args); err != nil {
		log.Err(err).Msg("client run error")
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
