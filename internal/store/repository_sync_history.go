package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

var syncHistoryColumns = []string{
	"id", "user_id", "client_version", "server_version_before", "server_version_after", "status",
	"entries_processed", "entries_created", "entries_updated", "entries_deleted",
	"folders_processed", "folders_created", "folders_updated", "folders_deleted",
	"tags_processed", "tags_created", "tags_updated", "tags_deleted",
	"notes_processed", "notes_created", "notes_updated", "notes_deleted",
	"conflicts_detected", "duration_ms",
	"ip_address", "user_agent", "device_id", "error_message", "created_at",
}

type syncHistoryRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSyncHistoryRepository constructs the SQL [SyncHistoryRepository].
func NewSyncHistoryRepository(db *DB, log *logger.Logger) SyncHistoryRepository {
	return &syncHistoryRepository{db: db, logger: log}
}

// Record appends entry. A zero CreatedAt is stamped with the store clock.
func (r *syncHistoryRepository) Record(ctx context.Context, entry models.SyncHistory) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.db.now()
	}

	s := entry.Stats
	query, args, err := r.db.builder.
		Insert("sync_history").
		Columns(syncHistoryColumns...).
		Values(
			entry.ID, entry.UserID, entry.ClientVersion, entry.ServerVersionBefore, entry.ServerVersionAfter, string(entry.Status),
			s.EntriesProcessed, s.EntriesCreated, s.EntriesUpdated, s.EntriesDeleted,
			s.FoldersProcessed, s.FoldersCreated, s.FoldersUpdated, s.FoldersDeleted,
			s.TagsProcessed, s.TagsCreated, s.TagsUpdated, s.TagsDeleted,
			s.NotesProcessed, s.NotesCreated, s.NotesUpdated, s.NotesDeleted,
			s.ConflictsDetected, s.DurationMs,
			entry.Origin.IPAddress, entry.Origin.UserAgent, entry.Origin.DeviceID, entry.ErrorMessage, entry.CreatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.db.withRetry(ctx, func() error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncHistoryRepository.Record").
			Int64("user_id", entry.UserID).
			Msg("failed to record sync history")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ListByUser returns the latest limit entries of a user, newest first.
func (r *syncHistoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.SyncHistory, error) {
	query, args, err := r.db.builder.
		Select(syncHistoryColumns...).
		From("sync_history").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var entries []models.SyncHistory
	err = r.db.withRetry(ctx, func() error {
		entries = make([]models.SyncHistory, 0, limit)

		rows, queryErr := r.db.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			var (
				e      models.SyncHistory
				status string
			)
			s := &e.Stats
			scanErr := rows.Scan(
				&e.ID, &e.UserID, &e.ClientVersion, &e.ServerVersionBefore, &e.ServerVersionAfter, &status,
				&s.EntriesProcessed, &s.EntriesCreated, &s.EntriesUpdated, &s.EntriesDeleted,
				&s.FoldersProcessed, &s.FoldersCreated, &s.FoldersUpdated, &s.FoldersDeleted,
				&s.TagsProcessed, &s.TagsCreated, &s.TagsUpdated, &s.TagsDeleted,
				&s.NotesProcessed, &s.NotesCreated, &s.NotesUpdated, &s.NotesDeleted,
				&s.ConflictsDetected, &s.DurationMs,
				&e.Origin.IPAddress, &e.Origin.UserAgent, &e.Origin.DeviceID, &e.ErrorMessage, &e.CreatedAt,
			)
			if scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
			}
			e.Status = models.SyncStatus(status)
			e.CreatedAt = e.CreatedAt.UTC()
			entries = append(entries, e)
		}

		if rowsErr := rows.Err(); rowsErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncHistoryRepository.ListByUser").
			Int64("user_id", userID).
			Msg("failed to list sync history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return entries, nil
}

func (r *syncHistoryRepository) LatestServerVersion(ctx context.Context) (int64, error) {
	query, args, err := r.db.builder.
		Select("COALESCE(MAX(server_version_after), 0)").
		From("sync_history").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var version int64
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&version)
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncHistoryRepository.LatestServerVersion").
			Msg("failed to read latest server version")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return version, nil
}
