package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/store"
	"github.com/MKhiriev/go-vault-sync/models"
)

// deltaBuilder computes what a device is missing. It only reads.
type deltaBuilder struct {
	items store.ItemStores
}

// build returns the full active snapshot when since is nil, otherwise the
// items updated and deleted strictly after since.
func (b deltaBuilder) build(ctx context.Context, userID int64, since *time.Time) (models.Delta, error) {
	var delta models.Delta

	for _, itemType := range models.ItemTypes {
		items, err := b.items.For(itemType)
		if err != nil {
			return models.Delta{}, err
		}

		if since == nil {
			active, err := items.FindAllActive(ctx, userID)
			if err != nil {
				return models.Delta{}, fmt.Errorf("error reading active %s items: %w", itemType, err)
			}
			delta.Set(itemType, active, nil)
			continue
		}

		updated, err := items.FindUpdatedSince(ctx, userID, *since)
		if err != nil {
			return models.Delta{}, fmt.Errorf("error reading updated %s items: %w", itemType, err)
		}
		deleted, err := items.FindDeletedIDsSince(ctx, userID, *since)
		if err != nil {
			return models.Delta{}, fmt.Errorf("error reading deleted %s ids: %w", itemType, err)
		}

		delta.Set(itemType, withoutIDs(updated, deleted), deleted)
	}

	return delta, nil
}

// withoutIDs drops the items whose id is listed in ids.
func withoutIDs(items []models.VaultItem, ids []string) []models.VaultItem {
	if len(ids) == 0 {
		return items
	}
	return slices.DeleteFunc(items, func(item models.VaultItem) bool {
		return slices.Contains(ids, item.ID)
	})
}
