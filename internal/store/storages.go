package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

// Storages bundles every repository the services depend on.
type Storages struct {
	UserRepository        UserRepository
	SyncHistoryRepository SyncHistoryRepository
	Items                 ItemStores

	closer func() error
}

// NewStorages connects to the configured backend, applies migrations for
// SQL drivers and wires the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Info().Str("func", "NewStorages").Msg("using in-memory storage")
		return NewMemoryStorages(cfg.MaxFolderDepth), nil
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.DB, log)
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.DB, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DB.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		db.Close()
		return nil, err
	}

	return newSQLStorages(db, cfg.MaxFolderDepth, log), nil
}

func newSQLStorages(db *DB, maxFolderDepth int, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:        NewUserRepository(db, log),
		SyncHistoryRepository: NewSyncHistoryRepository(db, log),
		Items:                 NewItemRepositories(db, maxFolderDepth, log),
		closer:                db.Close,
	}
}

// Close releases the underlying connection pool.
func (s *Storages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
