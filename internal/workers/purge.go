// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

const defaultPurgeTimeout = time.Minute

// PurgeWorker removes items that were soft-deleted more than retention ago.
//
// A deletion older than the retention can no longer reach clients through a
// delta, so clients that stay offline longer than that must run a full sync.
type PurgeWorker struct {
	stores    store.ItemStores
	retention time.Duration
	timeout   time.Duration
	now       func() time.Time

	logger *logger.Logger
}

func NewPurgeWorker(stores store.ItemStores, retention time.Duration, logger *logger.Logger) *PurgeWorker {
	return &PurgeWorker{
		stores:    stores,
		retention: retention,
		timeout:   defaultPurgeTimeout,
		now:       time.Now,
		logger:    logger,
	}
}

func (p *PurgeWorker) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	purged, err := p.Purge(ctx)
	if err != nil {
		p.logger.Err(err).Str("func", "PurgeWorker.Run").Int64("purged", purged).Msg("purge finished with errors")
		return
	}
	p.logger.Info().Str("func", "PurgeWorker.Run").Int64("purged", purged).Msg("purge finished")
}

// Purge runs one pass over every item type. A failing store does not stop
// the others; their errors are joined.
func (p *PurgeWorker) Purge(ctx context.Context) (int64, error) {
	before := p.now().UTC().Add(-p.retention)

	var (
		total int64
		errs  []error
	)
	for _, itemType := range models.ItemTypes {
		itemStore, ok := p.stores[itemType]
		if !ok {
			continue
		}

		purged, err := itemStore.PurgeDeletedBefore(ctx, before)
		if err != nil {
			errs = append(errs, fmt.Errorf("purging %s: %w", itemType, err))
			continue
		}
		if purged > 0 {
			p.logger.Debug().Str("type", string(itemType)).Int64("purged", purged).Msg("purged soft-deleted items")
		}
		total += purged
	}

	return total, errors.Join(errs...)
}
