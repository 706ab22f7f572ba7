package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

type Services struct {
	AuthService    AuthService
	SyncService    SyncService
	AppInfoService AppInfoService

	// VersionCounter is the global server marker shared by every sync.
	VersionCounter *AtomicVersionCounter
}

// NewServices wires every service over storages. The global marker is
// seeded from the sync history.
func NewServices(ctx context.Context, storages *store.Storages, cfg config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger, opts ...SyncOption) (*Services, error) {
	counter, err := SeedVersionCounter(ctx, storages.SyncHistoryRepository)
	if err != nil {
		return nil, err
	}

	appInfo, err := NewAppInfoService(cfg.App, buildInfo)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	logger.Info().Int64("server_version", counter.Current()).Msg("global sync marker restored")

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, cfg.App, logger),
		SyncService:    NewSyncService(storages, counter, opts...),
		AppInfoService: appInfo,
		VersionCounter: counter,
	}, nil
}
