// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/internal/validators"
	"github.com/MKhiriev/go-vault-sync/models"
)

// syncService is the concrete implementation of SyncService. One call of
// Synchronize runs strictly sequentially; concurrent calls are kept
// consistent by per-item versions checked again by the store on write.
type syncService struct {
	users      store.UserRepository
	history    store.SyncHistoryRepository
	processors []*changeProcessor
	delta      deltaBuilder
	recorder   historyRecorder
	counter    VersionCounter
	metrics    SyncMetrics
	now        func() time.Time
}

// SyncOption customizes a syncService.
type SyncOption func(*syncService)

// WithConflictResolver replaces the last-writer-wins resolver.
func WithConflictResolver(resolver ConflictResolver) SyncOption {
	return func(s *syncService) {
		for _, p := range s.processors {
			p.resolver = resolver
		}
	}
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(ids IDGenerator) SyncOption {
	return func(s *syncService) {
		for _, p := range s.processors {
			p.ids = ids
		}
		s.recorder.ids = ids
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SyncOption {
	return func(s *syncService) {
		s.now = now
		for _, p := range s.processors {
			p.now = now
		}
	}
}

// WithSyncMetrics attaches a metrics observer.
func WithSyncMetrics(metrics SyncMetrics) SyncOption {
	return func(s *syncService) {
		s.metrics = metrics
	}
}

// NewSyncService wires the engine over storages. The counter is owned by
// the caller so that it can be seeded from history and shared.
func NewSyncService(storages *store.Storages, counter VersionCounter, opts ...SyncOption) SyncService {
	ids := utils.NewUUIDGenerator()
	resolver := NewConflictResolver()
	validator := validators.NewSyncValidator()

	s := &syncService{
		users:    storages.UserRepository,
		history:  storages.SyncHistoryRepository,
		delta:    deltaBuilder{items: storages.Items},
		recorder: historyRecorder{repo: storages.SyncHistoryRepository, ids: ids, timeout: historyWriteTimeout},
		counter:  counter,
		metrics:  nopSyncMetrics{},
		now:      time.Now,
	}

	for _, itemType := range models.ItemTypes {
		s.processors = append(s.processors, &changeProcessor{
			itemType:  itemType,
			items:     storages.Items[itemType],
			resolver:  resolver,
			validator: validator,
			ids:       ids,
			now:       time.Now,
		})
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Synchronize implements SyncService.
func (s *syncService) Synchronize(ctx context.Context, userID int64, req models.SyncRequest, origin models.RequestOrigin) models.SyncResponse {
	log := logger.FromContext(ctx)
	started := s.now()
	versionBefore := s.counter.Current()

	tally := newSyncTally()
	entry := models.SyncHistory{
		UserID:              userID,
		ClientVersion:       req.ClientVersion,
		ServerVersionBefore: versionBefore,
		ServerVersionAfter:  versionBefore,
		Origin:              origin,
	}

	fail := func(err error) models.SyncResponse {
		log.Err(err).Str("func", "syncService.Synchronize").Int64("user_id", userID).Msg("synchronization aborted")
		return s.finish(ctx, started, entry, tally, models.SyncResponse{
			ServerVersion: entry.ServerVersionAfter,
			SyncedAt:      s.syncedAt(),
		}, err)
	}

	if err := s.validateUser(ctx, userID); err != nil {
		return fail(err)
	}

	if err := s.process(ctx, log, userID, req, tally); err != nil {
		return fail(err)
	}

	entry.ServerVersionAfter = s.counter.Advance()
	syncedAt := s.syncedAt()

	delta, err := s.delta.build(ctx, userID, req.LastSyncTime)
	if err != nil {
		return fail(err)
	}

	return s.finish(ctx, started, entry, tally, models.SyncResponse{
		Success:       true,
		ServerVersion: entry.ServerVersionAfter,
		SyncedAt:      syncedAt,
		DeltaUpdates:  &delta,
	}, nil)
}

func (s *syncService) validateUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("error checking user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// process runs every change and deletion, type by type, through the
// reducer. It stops at the first system failure.
func (s *syncService) process(ctx context.Context, log *logger.Logger, userID int64, req models.SyncRequest, tally *syncTally) error {
	for _, p := range s.processors {
		for _, change := range req.Changes(p.itemType) {
			if err := tally.fold(log, p.apply(ctx, userID, change)); err != nil {
				return err
			}
		}
		for _, id := range req.Deletions(p.itemType) {
			if err := tally.fold(log, p.remove(ctx, userID, id)); err != nil {
				return err
			}
		}
	}
	return nil
}

// finish completes resp from the tally, writes history and metrics.
func (s *syncService) finish(ctx context.Context, started time.Time, entry models.SyncHistory, tally *syncTally, resp models.SyncResponse, cause error) models.SyncResponse {
	duration := s.now().Sub(started)

	tally.stats.DurationMs = duration.Milliseconds()
	entry.Stats = tally.stats
	entry.Status = tally.status(cause != nil)
	if cause != nil {
		full := cause.Error()
		entry.ErrorMessage = &full

		public := clientErrorMessage(cause)
		resp.ErrorMessage = &public
	}

	s.recorder.record(ctx, entry)
	s.metrics.ObserveSync(ctx, entry.Status, entry.Stats, duration)

	resp.Conflicts = tally.conflicts
	resp.Stats = tally.stats
	return resp
}

func (s *syncService) syncedAt() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// History implements SyncService.
func (s *syncService) History(ctx context.Context, userID int64, limit int) ([]models.SyncHistory, error) {
	limit, err := validators.HistoryLimit(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	entries, err := s.history.ListByUser(ctx, userID, limit)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "syncService.History").Int64("user_id", userID).Msg("error listing sync history")
		return nil, fmt.Errorf("error listing sync history: %w", err)
	}
	return entries, nil
}

// clientErrorMessage hides internal details from the device. The full
// error is kept in the history record.
func clientErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return ErrUserNotFound.Error()
	case errors.Is(err, context.Canceled):
		return "synchronization was canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "synchronization timed out"
	case errors.Is(err, store.ErrStorageUnavailable):
		return "storage is temporarily unavailable, try again later"
	default:
		return "internal error during synchronization"
	}
}

type nopSyncMetrics struct{}

func (nopSyncMetrics) ObserveSync(context.Context, models.SyncStatus, models.SyncStats, time.Duration) {}
