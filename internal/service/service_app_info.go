package service

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/models"
)

type appInfoService struct {
	version string
	build   models.AppBuildInfo
}

// NewAppInfoService answers version queries from the configured release
// version and the metadata linked into the binary. A config without a
// version is rejected with ErrVersionIsNotSpecified.
func NewAppInfoService(cfg config.App, build models.AppBuildInfo) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}
	return appInfoService{version: cfg.Version, build: build}, nil
}

func (s appInfoService) GetAppVersion(context.Context) string { return s.version }

func (s appInfoService) GetBuildInfo(context.Context) models.AppBuildInfo { return s.build }
