// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
)

// itemRepository is the SQL implementation of [ItemStore] for one item
// type. The same code serves PostgreSQL and SQLite; only the placeholder
// format of [DB.builder] differs.
type itemRepository struct {
	*DB
	table  itemTable
	guard  folderGuard
	logger *logger.Logger
}

// NewItemRepositories builds one SQL [ItemStore] per item type. Folder
// references are validated against the folders table of the same database.
func NewItemRepositories(db *DB, maxFolderDepth int, log *logger.Logger) ItemStores {
	guard := folderGuard{maxDepth: maxFolderDepth}
	guard.lookup = func(ctx context.Context, userID int64, folderID string) (*string, error) {
		return findFolderParent(ctx, db, userID, folderID)
	}

	stores := make(ItemStores, len(itemTables))
	for _, table := range itemTables {
		stores[table.itemType] = &itemRepository{
			DB:     db,
			table:  table,
			guard:  guard,
			logger: log,
		}
	}

	log.Debug().Int("stores", len(stores)).Msg("created item repositories")
	return stores
}

func (r *itemRepository) Type() models.ItemType {
	return r.table.itemType
}

// Create inserts a new item at version 1. The folder placement (credentials,
// notes) or the parent chain (folders) is validated first.
func (r *itemRepository) Create(ctx context.Context, item models.VaultItem) (models.VaultItem, error) {
	log := logger.FromContext(ctx)

	if err := r.checkFolders(ctx, item); err != nil {
		return models.VaultItem{}, err
	}

	now := r.now()
	item.Type = r.table.itemType
	item.Version = 1
	item.CreatedAt = now
	item.UpdatedAt = now
	item.DeletedAt = nil

	query, args, err := r.builder.
		Insert(r.table.name).
		Columns(r.table.columns()...).
		Values(r.table.insertArgs(item)...).
		ToSql()
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.withRetry(ctx, func() error {
		_, execErr := r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		if r.errorClassificator.IsUniqueViolation(err) {
			return models.VaultItem{}, ErrItemAlreadyExists
		}
		log.Err(err).
			Str("func", "itemRepository.Create").
			Str("item_type", r.table.itemType.String()).
			Int64("user_id", item.UserID).
			Msg("failed to insert vault item")
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return item, nil
}

func (r *itemRepository) FindActiveByID(ctx context.Context, userID int64, id string) (models.VaultItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.selectActive(userID).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var item models.VaultItem
	err = r.withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(r.table.scanDest(&item)...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.VaultItem{}, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.FindActiveByID").
			Str("item_type", r.table.itemType.String()).
			Int64("user_id", userID).
			Str("id", id).
			Msg("failed to find vault item")
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return r.normalize(item), nil
}

// Update rewrites the payload with a single compare-and-swap statement on
// the version column. When nothing was updated, a follow-up read tells a
// missing item apart from a version race.
func (r *itemRepository) Update(ctx context.Context, item models.VaultItem, expectedVersion int64) (models.VaultItem, error) {
	log := logger.FromContext(ctx)

	if err := r.checkFolders(ctx, item); err != nil {
		return models.VaultItem{}, err
	}

	now := r.now()
	update := r.builder.Update(r.table.name)
	payload := r.table.payloadArgs(item.ItemPayload)
	for i, column := range r.table.payloadColumns {
		update = update.Set(column, payload[i])
	}

	query, args, err := update.
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": item.UserID}).
		Where(sq.Eq{"id": item.ID}).
		Where(sq.Eq{"version": expectedVersion}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, query, args)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Update").
			Str("item_type", r.table.itemType.String()).
			Int64("user_id", item.UserID).
			Str("id", item.ID).
			Msg("failed to update vault item")
		return models.VaultItem{}, err
	}

	if affected == 0 {
		current, findErr := r.FindActiveByID(ctx, item.UserID, item.ID)
		if findErr != nil {
			return models.VaultItem{}, findErr
		}
		log.Debug().
			Str("func", "itemRepository.Update").
			Str("id", item.ID).
			Int64("expected_version", expectedVersion).
			Int64("current_version", current.Version).
			Msg("version moved during update")
		return models.VaultItem{}, ErrVersionConflict
	}

	return r.FindActiveByID(ctx, item.UserID, item.ID)
}

// SoftDelete stamps deleted_at and bumps the version of an active item.
func (r *itemRepository) SoftDelete(ctx context.Context, userID int64, id string) error {
	log := logger.FromContext(ctx)

	now := r.now()
	query, args, err := r.builder.
		Update(r.table.name).
		Set("deleted_at", now).
		Set("updated_at", now).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, query, args)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.SoftDelete").
			Str("item_type", r.table.itemType.String()).
			Int64("user_id", userID).
			Str("id", id).
			Msg("failed to soft-delete vault item")
		return err
	}

	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *itemRepository) FindAllActive(ctx context.Context, userID int64) ([]models.VaultItem, error) {
	query, args, err := r.selectActive(userID).OrderBy("updated_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryItems(ctx, "itemRepository.FindAllActive", userID, query, args)
}

func (r *itemRepository) FindUpdatedSince(ctx context.Context, userID int64, since time.Time) ([]models.VaultItem, error) {
	query, args, err := r.selectActive(userID).
		Where(sq.Gt{"updated_at": since.UTC()}).
		OrderBy("updated_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryItems(ctx, "itemRepository.FindUpdatedSince", userID, query, args)
}

func (r *itemRepository) FindDeletedIDsSince(ctx context.Context, userID int64, since time.Time) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select("id").
		From(r.table.name).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.NotEq{"deleted_at": nil}).
		Where(sq.Gt{"deleted_at": since.UTC()}).
		OrderBy("deleted_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var ids []string
	err = r.withRetry(ctx, func() error {
		ids = make([]string, 0, 16)

		rows, queryErr := r.DB.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if scanErr := rows.Scan(&id); scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
			}
			ids = append(ids, id)
		}

		return rows.Err()
	})
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.FindDeletedIDsSince").
			Str("item_type", r.table.itemType.String()).
			Int64("user_id", userID).
			Msg("failed to query deleted vault items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return ids, nil
}

func (r *itemRepository) PurgeDeletedBefore(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := r.builder.
		Delete(r.table.name).
		Where(sq.NotEq{"deleted_at": nil}).
		Where(sq.Lt{"deleted_at": before.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	purged, err := r.exec(ctx, query, args)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "itemRepository.PurgeDeletedBefore").
			Str("item_type", r.table.itemType.String()).
			Msg("failed to purge deleted vault items")
		return 0, err
	}

	return purged, nil
}

func (r *itemRepository) checkFolders(ctx context.Context, item models.VaultItem) error {
	switch {
	case r.table.usesFolders():
		return r.guard.checkPlacement(ctx, item.UserID, item.FolderID)
	case r.table.itemType == models.ItemTypeFolder:
		return r.guard.checkParent(ctx, item.UserID, item.ID, item.ParentID)
	}
	return nil
}

func (r *itemRepository) selectActive(userID int64) sq.SelectBuilder {
	return r.builder.
		Select(r.table.columns()...).
		From(r.table.name).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"deleted_at": nil})
}

func (r *itemRepository) queryItems(ctx context.Context, funcName string, userID int64, query string, args []any) ([]models.VaultItem, error) {
	log := logger.FromContext(ctx)

	var items []models.VaultItem
	err := r.withRetry(ctx, func() error {
		items = make([]models.VaultItem, 0, 50)

		rows, queryErr := r.DB.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			var item models.VaultItem
			if scanErr := rows.Scan(r.table.scanDest(&item)...); scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
			}
			items = append(items, r.normalize(item))
		}

		if rowsErr := rows.Err(); rowsErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("item_type", r.table.itemType.String()).
			Int64("user_id", userID).
			Msg("failed to query vault items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return items, nil
}

func (r *itemRepository) exec(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	err := r.withRetry(ctx, func() error {
		result, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = result.RowsAffected()
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

// normalize fills the type and moves every timestamp to UTC.
func (r *itemRepository) normalize(item models.VaultItem) models.VaultItem {
	item.Type = r.table.itemType
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	if item.DeletedAt != nil {
		deletedAt := item.DeletedAt.UTC()
		item.DeletedAt = &deletedAt
	}
	return item
}

// findFolderParent implements [folderLookup] against the folders table.
func findFolderParent(ctx context.Context, db *DB, userID int64, folderID string) (*string, error) {
	query, args, err := db.builder.
		Select("parent_id").
		From(foldersTable.name).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"id": folderID}).
		Where(sq.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var parentID *string
	err = db.withRetry(ctx, func() error {
		return db.QueryRowContext(ctx, query, args...).Scan(&parentID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return parentID, nil
}
