// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// validate checks that the final merged [StructuredConfig] can be used to
// start the server.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return fmt.Errorf("%w: at least one of http or grpc address is required", ErrInvalidServerConfigs)
	}

	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: dsn is required for driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unsupported driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Storage.MaxFolderDepth < 1 {
		return fmt.Errorf("%w: max folder depth must be positive", ErrInvalidStorageConfigs)
	}

	if cfg.Workers.PurgeRetention <= 0 {
		return fmt.Errorf("%w: purge retention must be positive", ErrInvalidWorkerConfigs)
	}

	if _, err := cron.ParseStandard(cfg.Workers.PurgeSchedule); err != nil {
		return fmt.Errorf("%w: purge schedule: %w", ErrInvalidWorkerConfigs, err)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.ServerAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
