// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
)

// ItemStore persists the vault items of a single [models.ItemType].
//
// Every mutation bumps the item version by exactly one and refreshes
// UpdatedAt. Soft-deleted items are invisible to every method except
// FindDeletedIDsSince and PurgeDeletedBefore.
type ItemStore interface {
	// Type returns the item type this store is bound to.
	Type() models.ItemType

	// Create inserts item at version 1. item.ID must be set by the caller;
	// a taken id yields [ErrItemAlreadyExists].
	Create(ctx context.Context, item models.VaultItem) (models.VaultItem, error)

	// FindActiveByID returns the active item or [ErrItemNotFound].
	FindActiveByID(ctx context.Context, userID int64, id string) (models.VaultItem, error)

	// Update rewrites the payload only when the stored version equals
	// expectedVersion. It returns [ErrVersionConflict] when the version moved
	// and [ErrItemNotFound] when the item is gone.
	Update(ctx context.Context, item models.VaultItem, expectedVersion int64) (models.VaultItem, error)

	// SoftDelete marks an active item as deleted. Missing or already deleted
	// items yield [ErrItemNotFound].
	SoftDelete(ctx context.Context, userID int64, id string) error

	FindAllActive(ctx context.Context, userID int64) ([]models.VaultItem, error)

	// FindUpdatedSince returns active items with UpdatedAt strictly after since.
	FindUpdatedSince(ctx context.Context, userID int64, since time.Time) ([]models.VaultItem, error)

	// FindDeletedIDsSince returns ids of items soft-deleted strictly after since.
	FindDeletedIDsSince(ctx context.Context, userID int64, since time.Time) ([]string, error)

	// PurgeDeletedBefore physically removes items of every user that were
	// soft-deleted before the given moment and returns how many were removed.
	PurgeDeletedBefore(ctx context.Context, before time.Time) (int64, error)
}

// ItemStores maps every item type to its store.
type ItemStores map[models.ItemType]ItemStore

// For returns the store of itemType or [ErrUnknownItemType].
func (s ItemStores) For(itemType models.ItemType) (ItemStore, error) {
	itemStore, ok := s[itemType]
	if !ok {
		return nil, ErrUnknownItemType
	}
	return itemStore, nil
}

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

// SyncHistoryRepository is the append-only log of sync attempts.
type SyncHistoryRepository interface {
	Record(ctx context.Context, entry models.SyncHistory) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.SyncHistory, error)

	// LatestServerVersion returns the highest server_version_after ever
	// recorded, or zero for an empty history.
	LatestServerVersion(ctx context.Context) (int64, error)
}

// ErrorClassificator decides how a driver error should be handled.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
