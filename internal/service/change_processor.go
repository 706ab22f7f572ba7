// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/internal/validators"
	"github.com/MKhiriev/go-vault-sync/models"
)

// changeProcessor applies client changes of one item type.
type changeProcessor struct {
	itemType  models.ItemType
	items     store.ItemStore
	resolver  ConflictResolver
	validator validators.Validator
	ids       IDGenerator
	now       func() time.Time
}

// apply turns one change into an outcome. It never panics on bad input and
// never returns an error directly: failures travel inside the outcome.
func (p *changeProcessor) apply(ctx context.Context, userID int64, change models.Change) changeOutcome {
	if err := p.validator.Validate(ctx, models.TypedChange{Type: p.itemType, Change: change}); err != nil {
		return p.outcome(change.ItemID(), outcomeFailed, err)
	}

	if change.Operation == models.OperationCreate {
		return p.create(ctx, userID, p.ids.Generate(), change.ItemPayload)
	}
	return p.update(ctx, userID, change)
}

// remove soft-deletes one item. A missing target counts as done.
func (p *changeProcessor) remove(ctx context.Context, userID int64, id string) changeOutcome {
	err := p.items.SoftDelete(ctx, userID, id)
	switch {
	case errors.Is(err, store.ErrItemNotFound):
		return p.outcome(id, outcomeAlreadyDeleted, nil)
	case err != nil:
		return p.outcome(id, outcomeFailed, err)
	}
	return p.outcome(id, outcomeDeleted, nil)
}

func (p *changeProcessor) create(ctx context.Context, userID int64, id string, payload models.ItemPayload) changeOutcome {
	item := models.VaultItem{ID: id, UserID: userID, ItemPayload: payload}

	created, err := p.items.Create(ctx, item)
	if errors.Is(err, store.ErrItemAlreadyExists) {
		// the id belongs to a deleted item or to someone else
		item.ID = p.ids.Generate()
		created, err = p.items.Create(ctx, item)
	}
	if err != nil {
		return p.outcome(id, outcomeFailed, err)
	}
	return p.outcome(created.ID, outcomeCreated, nil)
}

func (p *changeProcessor) update(ctx context.Context, userID int64, change models.Change) changeOutcome {
	id := change.ItemID()

	current, err := p.items.FindActiveByID(ctx, userID, id)
	if errors.Is(err, store.ErrItemNotFound) {
		logger.FromContext(ctx).Debug().
			Str("func", "changeProcessor.update").
			Str("item_type", p.itemType.String()).
			Str("item_id", id).
			Msg("update target is missing, creating it")
		return p.create(ctx, userID, id, change.ItemPayload)
	}
	if err != nil {
		return p.outcome(id, outcomeFailed, err)
	}

	if current.Version == change.ClientVersion() {
		if err = p.write(ctx, current, change.ItemPayload); err != nil {
			return p.writeFailure(id, err)
		}
		return p.outcome(id, outcomeUpdated, nil)
	}

	conflict := p.resolver.Resolve(p.itemType, change, current, p.now())
	o := p.outcome(id, outcomeConflict, nil)
	if conflict.Resolution == models.ResolutionClientWins {
		if err = p.write(ctx, current, change.ItemPayload); err != nil {
			o = p.writeFailure(id, err)
		}
	}
	// the mismatch is reported even when the winning write did not land
	o.conflict = &conflict
	return o
}

// write replaces the payload of current, expecting its version unchanged.
func (p *changeProcessor) write(ctx context.Context, current models.VaultItem, payload models.ItemPayload) error {
	_, err := p.items.Update(ctx, models.VaultItem{
		ID:          current.ID,
		UserID:      current.UserID,
		ItemPayload: payload,
	}, current.Version)
	return err
}

// writeFailure maps a failed versioned write. Losing a race against another
// request only skips the item.
func (p *changeProcessor) writeFailure(id string, err error) changeOutcome {
	if errors.Is(err, store.ErrVersionConflict) || errors.Is(err, store.ErrItemNotFound) {
		return p.outcome(id, outcomeSkipped, err)
	}
	return p.outcome(id, outcomeFailed, err)
}

func (p *changeProcessor) outcome(id string, kind outcomeKind, err error) changeOutcome {
	return changeOutcome{itemType: p.itemType, entityID: id, kind: kind, err: err}
}
