package config

import "time"

const (
	defaultTokenIssuer    = "go-vault-sync"
	defaultTokenDuration  = 24 * time.Hour
	defaultVersion        = "dev"
	defaultLogLevel       = "debug"
	defaultMaxRetries     = 3
	defaultMaxFolderDepth = 5
	defaultRequestTimeout = 30 * time.Second
	defaultPurgeSchedule  = "@daily"
	defaultPurgeRetention = 30 * 24 * time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   defaultTokenIssuer,
			TokenDuration: defaultTokenDuration,
			Version:       defaultVersion,
			LogLevel:      defaultLogLevel,
		},
		Storage: Storage{
			DB: DB{
				MaxRetries: defaultMaxRetries,
			},
			MaxFolderDepth: defaultMaxFolderDepth,
		},
		Server: Server{
			RequestTimeout: defaultRequestTimeout,
		},
		Workers: Workers{
			PurgeSchedule:  defaultPurgeSchedule,
			PurgeRetention: defaultPurgeRetention,
		},
	}
}

// resolveDriver picks PostgreSQL when only a DSN was given and the in-memory
// store when nothing was configured at all.
func (cfg *StructuredConfig) resolveDriver() {
	if cfg.Storage.DB.Driver != "" {
		return
	}

	if cfg.Storage.DB.DSN != "" {
		cfg.Storage.DB.Driver = DriverPostgres
		return
	}

	cfg.Storage.DB.Driver = DriverMemory
}
