package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/adapter"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

const defaultPullInterval = 5 * time.Minute

// pullJob repeatedly sends an empty sync request carrying the marker of the
// previous successful sync, so every pass receives only what changed on the
// server in between.
type pullJob struct {
	syncer  adapter.SyncAdapter
	relogin func(ctx context.Context) error
	out     io.Writer

	lastSync      *time.Time
	serverVersion int64

	logger *logger.Logger
}

func newPullJob(syncer adapter.SyncAdapter, relogin func(ctx context.Context) error, out io.Writer, logger *logger.Logger) *pullJob {
	return &pullJob{
		syncer:  syncer,
		relogin: relogin,
		out:     out,
		logger:  logger,
	}
}

// Run pulls once right away and then every interval until ctx is done. A
// failed pass is logged and retried on the next tick with the same marker.
func (j *pullJob) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultPullInterval
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		if err := j.pull(ctx); err != nil && ctx.Err() == nil {
			j.logger.Err(err).Msg("pull failed")
		}
		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (j *pullJob) pull(ctx context.Context) error {
	req := models.SyncRequest{ClientVersion: j.serverVersion, LastSyncTime: j.lastSync}

	resp, err := j.syncer.Synchronize(ctx, req)
	if errors.Is(err, adapter.ErrUnauthorized) {
		j.logger.Debug().Msg("token rejected, logging in again")
		if err = j.relogin(ctx); err != nil {
			return err
		}
		resp, err = j.syncer.Synchronize(ctx, req)
	}
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrSyncFailed, errorMessage(resp))
	}

	syncedAt := resp.SyncedAt
	j.lastSync = &syncedAt
	j.serverVersion = resp.ServerVersion

	updated, deleted := deltaSize(resp.DeltaUpdates)
	_, err = fmt.Fprintf(j.out, "%s server_version=%d updated=%d deleted=%d\n",
		syncedAt.Format(time.RFC3339), resp.ServerVersion, updated, deleted)
	return err
}

func deltaSize(delta *models.Delta) (updated, deleted int) {
	if delta == nil {
		return 0, 0
	}
	for _, itemType := range models.ItemTypes {
		updated += len(delta.Updated(itemType))
		deleted += len(delta.Deleted(itemType))
	}
	return updated, deleted
}
