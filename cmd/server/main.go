package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/handler"
	"github.com/MKhiriev/go-vault-sync/internal/handler/http"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/server"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/telemetry"
	"github.com/MKhiriev/go-vault-sync/internal/workers"
	"github.com/MKhiriev/go-vault-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const stopTimeout = 10 * time.Second

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("go-vault-sync").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("go-vault-sync", logger.WithLevel(cfg.App.LogLevel), logger.WithFile(cfg.App.LogFile))
	log.Debug().Str("driver", cfg.Storage.DB.Driver).Str("http", cfg.Server.HTTPAddress).Str("grpc", cfg.Server.GRPCAddress).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	provider, err := telemetry.NewMeterProvider(cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating meter provider")
	}
	defer provider.Shutdown(ctx)

	syncMetrics, err := telemetry.NewSyncMetrics(provider.MeterProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating sync metrics")
	}
	httpMetrics, err := telemetry.NewHTTPMetrics(provider.MeterProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating http metrics")
	}

	services, err := service.NewServices(ctx, storages, *cfg, buildInfo, log, service.WithSyncMetrics(syncMetrics))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log, http.WithMetrics(httpMetrics, provider.Handler))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	jobs, err := workers.NewWorkers(cfg.Workers, storages, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating workers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	jobs.Start()
	srv.RunServer()

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err = jobs.Stop(stopCtx); err != nil {
		log.Err(err).Msg("workers did not stop in time")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
