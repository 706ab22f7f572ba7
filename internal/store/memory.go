package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
)

// memoryDB is a process-local backend used by the "memory" driver and by
// tests. One mutex guards every table, so the folder guard can read the
// folders table while a write on another table holds the lock.
type memoryDB struct {
	mu      sync.RWMutex
	items   map[models.ItemType]map[string]models.VaultItem
	users   map[int64]models.User
	history []models.SyncHistory
	nextUID int64
	now     func() time.Time
}

func newMemoryDB() *memoryDB {
	items := make(map[models.ItemType]map[string]models.VaultItem, len(models.ItemTypes))
	for _, itemType := range models.ItemTypes {
		items[itemType] = make(map[string]models.VaultItem)
	}

	return &memoryDB{
		items: items,
		users: make(map[int64]models.User),
		now:   utcNow,
	}
}

// memoryItemStore implements [ItemStore] for one item type over memoryDB.
type memoryItemStore struct {
	db       *memoryDB
	itemType models.ItemType
	guard    folderGuard
}

// NewMemoryStorages builds a complete in-memory [Storages].
func NewMemoryStorages(maxFolderDepth int) *Storages {
	db := newMemoryDB()

	guard := folderGuard{
		maxDepth: maxFolderDepth,
		lookup: func(_ context.Context, userID int64, folderID string) (*string, error) {
			// called with db.mu held
			folder, ok := db.items[models.ItemTypeFolder][folderID]
			if !ok || folder.UserID != userID || !folder.Active() {
				return nil, ErrItemNotFound
			}
			return folder.ParentID, nil
		},
	}

	items := make(ItemStores, len(models.ItemTypes))
	for _, itemType := range models.ItemTypes {
		items[itemType] = &memoryItemStore{db: db, itemType: itemType, guard: guard}
	}

	return &Storages{
		UserRepository:        &memoryUserRepository{db: db},
		SyncHistoryRepository: &memorySyncHistoryRepository{db: db},
		Items:                 items,
		closer:                func() error { return nil },
	}
}

func (s *memoryItemStore) Type() models.ItemType {
	return s.itemType
}

func (s *memoryItemStore) table() map[string]models.VaultItem {
	return s.db.items[s.itemType]
}

func (s *memoryItemStore) checkFolders(ctx context.Context, item models.VaultItem) error {
	switch s.itemType {
	case models.ItemTypeCredential, models.ItemTypeNote:
		return s.guard.checkPlacement(ctx, item.UserID, item.FolderID)
	case models.ItemTypeFolder:
		return s.guard.checkParent(ctx, item.UserID, item.ID, item.ParentID)
	}
	return nil
}

func (s *memoryItemStore) Create(ctx context.Context, item models.VaultItem) (models.VaultItem, error) {
	if err := ctx.Err(); err != nil {
		return models.VaultItem{}, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.table()[item.ID]; taken {
		return models.VaultItem{}, ErrItemAlreadyExists
	}
	if err := s.checkFolders(ctx, item); err != nil {
		return models.VaultItem{}, err
	}

	now := s.db.now()
	item.Type = s.itemType
	item.Version = 1
	item.CreatedAt = now
	item.UpdatedAt = now
	item.DeletedAt = nil
	s.table()[item.ID] = item

	return item, nil
}

func (s *memoryItemStore) FindActiveByID(ctx context.Context, userID int64, id string) (models.VaultItem, error) {
	if err := ctx.Err(); err != nil {
		return models.VaultItem{}, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	item, ok := s.table()[id]
	if !ok || item.UserID != userID || !item.Active() {
		return models.VaultItem{}, ErrItemNotFound
	}
	return item, nil
}

func (s *memoryItemStore) Update(ctx context.Context, item models.VaultItem, expectedVersion int64) (models.VaultItem, error) {
	if err := ctx.Err(); err != nil {
		return models.VaultItem{}, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.table()[item.ID]
	if !ok || current.UserID != item.UserID || !current.Active() {
		return models.VaultItem{}, ErrItemNotFound
	}
	if current.Version != expectedVersion {
		return models.VaultItem{}, ErrVersionConflict
	}
	if err := s.checkFolders(ctx, item); err != nil {
		return models.VaultItem{}, err
	}

	current.ItemPayload = item.ItemPayload
	current.Version++
	current.UpdatedAt = s.db.now()
	s.table()[item.ID] = current

	return current, nil
}

func (s *memoryItemStore) SoftDelete(ctx context.Context, userID int64, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.table()[id]
	if !ok || current.UserID != userID || !current.Active() {
		return ErrItemNotFound
	}

	now := s.db.now()
	current.DeletedAt = &now
	current.UpdatedAt = now
	current.Version++
	s.table()[id] = current

	return nil
}

func (s *memoryItemStore) FindAllActive(ctx context.Context, userID int64) ([]models.VaultItem, error) {
	return s.collect(ctx, func(item models.VaultItem) bool {
		return item.UserID == userID && item.Active()
	})
}

func (s *memoryItemStore) FindUpdatedSince(ctx context.Context, userID int64, since time.Time) ([]models.VaultItem, error) {
	return s.collect(ctx, func(item models.VaultItem) bool {
		return item.UserID == userID && item.Active() && item.UpdatedAt.After(since)
	})
}

func (s *memoryItemStore) FindDeletedIDsSince(ctx context.Context, userID int64, since time.Time) ([]string, error) {
	deleted, err := s.collect(ctx, func(item models.VaultItem) bool {
		return item.UserID == userID && !item.Active() && item.DeletedAt.After(since)
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(deleted))
	for _, item := range deleted {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func (s *memoryItemStore) PurgeDeletedBefore(ctx context.Context, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var purged int64
	for id, item := range s.table() {
		if !item.Active() && item.DeletedAt.Before(before) {
			delete(s.table(), id)
			purged++
		}
	}
	return purged, nil
}

// collect returns matching items ordered by updated_at, then id.
func (s *memoryItemStore) collect(ctx context.Context, match func(models.VaultItem) bool) ([]models.VaultItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := make([]models.VaultItem, 0, len(s.table()))
	for _, item := range s.table() {
		if match(item) {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].UpdatedAt.Before(items[j].UpdatedAt)
	})
	return items, nil
}

type memoryUserRepository struct {
	db *memoryDB
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if existing.Login == user.Login {
			return models.User{}, ErrLoginAlreadyExists
		}
	}

	r.db.nextUID++
	user.UserID = r.db.nextUID
	user.Password = ""
	user.CreatedAt = r.db.now()
	r.db.users[user.UserID] = user

	return user, nil
}

func (r *memoryUserRepository) FindUserByLogin(_ context.Context, login string) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Login == login {
			return user, nil
		}
	}
	return models.User{}, ErrNoUserWasFound
}

func (r *memoryUserRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.users[userID]
	return ok, nil
}

type memorySyncHistoryRepository struct {
	db *memoryDB
}

func (r *memorySyncHistoryRepository) Record(ctx context.Context, entry models.SyncHistory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.db.now()
	}
	r.db.history = append(r.db.history, entry)
	return nil
}

func (r *memorySyncHistoryRepository) ListByUser(_ context.Context, userID int64, limit int) ([]models.SyncHistory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	entries := make([]models.SyncHistory, 0, limit)
	for i := len(r.db.history) - 1; i >= 0 && len(entries) < limit; i-- {
		if r.db.history[i].UserID == userID {
			entries = append(entries, r.db.history[i])
		}
	}
	return entries, nil
}

func (r *memorySyncHistoryRepository) LatestServerVersion(_ context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var latest int64
	for _, entry := range r.db.history {
		latest = max(latest, entry.ServerVersionAfter)
	}
	return latest, nil
}
