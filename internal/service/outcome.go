package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

type outcomeKind int

const (
	outcomeFailed outcomeKind = iota
	outcomeSkipped
	outcomeCreated
	outcomeUpdated
	outcomeConflict
	outcomeDeleted
	outcomeAlreadyDeleted
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeSkipped:
		return "skipped"
	case outcomeCreated:
		return "created"
	case outcomeUpdated:
		return "updated"
	case outcomeConflict:
		return "conflict"
	case outcomeDeleted:
		return "deleted"
	case outcomeAlreadyDeleted:
		return "already_deleted"
	default:
		return "failed"
	}
}

// changeOutcome is the result of applying one change or one deletion.
type changeOutcome struct {
	itemType models.ItemType
	entityID string
	kind     outcomeKind
	conflict *models.Conflict
	err      error
}

// isSystemFailure reports whether err threatens the whole request rather
// than a single item.
func isSystemFailure(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, store.ErrStorageUnavailable)
}

// syncTally folds outcomes into the response counters.
type syncTally struct {
	stats     models.SyncStats
	conflicts []models.Conflict
	failed    int
	skipped   int
}

func newSyncTally() *syncTally {
	return &syncTally{conflicts: []models.Conflict{}}
}

// fold records o. A non-nil error means o carries a system failure and the
// request must be aborted; the tally is left untouched in that case.
// A conflict attached to a skipped or failed outcome is still reported.
func (t *syncTally) fold(log *logger.Logger, o changeOutcome) error {
	var ts models.TypeStats

	switch o.kind {
	case outcomeCreated:
		ts = models.TypeStats{Processed: 1, Created: 1}
	case outcomeUpdated:
		ts = models.TypeStats{Processed: 1, Updated: 1}
	case outcomeConflict:
		ts.Processed = 1
		if o.conflict.Resolution == models.ResolutionClientWins {
			ts.Updated = 1
		}
	case outcomeDeleted:
		ts.Deleted = 1
	case outcomeAlreadyDeleted:
		log.Debug().Str("func", "syncTally.fold").
			Str("item_type", o.itemType.String()).
			Str("item_id", o.entityID).
			Msg("deletion target is already gone")
	case outcomeSkipped:
		t.skipped++
		log.Warn().Err(o.err).Str("func", "syncTally.fold").
			Str("item_type", o.itemType.String()).
			Str("item_id", o.entityID).
			Msg("item changed concurrently, skipped for this sync")
	default:
		if isSystemFailure(o.err) {
			return o.err
		}
		t.failed++
		log.Err(o.err).Str("func", "syncTally.fold").
			Str("item_type", o.itemType.String()).
			Str("item_id", o.entityID).
			Msg("item could not be applied")
	}

	if o.conflict != nil {
		t.conflicts = append(t.conflicts, *o.conflict)
		t.stats.ConflictsDetected++
	}
	t.stats.Add(o.itemType, ts)
	return nil
}

// status classifies a finished attempt.
func (t *syncTally) status(aborted bool) models.SyncStatus {
	switch {
	case aborted:
		return models.SyncStatusFailed
	case len(t.conflicts) > 0:
		return models.SyncStatusConflictDetected
	default:
		return models.SyncStatusSuccess
	}
}
