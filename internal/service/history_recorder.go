package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

const historyWriteTimeout = 5 * time.Second

// historyRecorder writes the audit record of a sync attempt. Failures are
// logged and swallowed.
type historyRecorder struct {
	repo    store.SyncHistoryRepository
	ids     IDGenerator
	timeout time.Duration
}

// record survives cancellation of the request context so that aborted
// attempts are still audited.
func (r historyRecorder) record(ctx context.Context, entry models.SyncHistory) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	entry.ID = r.ids.Generate()
	if err := r.repo.Record(ctx, entry); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "historyRecorder.record").
			Int64("user_id", entry.UserID).
			Str("status", string(entry.Status)).
			Msg("error writing sync history")
	}
}
