package models

import "time"

// SyncResponse is returned for every synchronization attempt, including failed
// ones. Success is false and ErrorMessage is set when the attempt was aborted.
type SyncResponse struct {
	Success       bool       `json:"success"`
	ServerVersion int64      `json:"server_version"`
	SyncedAt      time.Time  `json:"synced_at"`
	Conflicts     []Conflict `json:"conflicts"`

	// DeltaUpdates is nil when the attempt was aborted before the delta was
	// computed.
	DeltaUpdates *Delta `json:"delta_updates,omitempty"`

	Stats        SyncStats `json:"stats"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}

// Delta lists, per item type, the active items changed since the client's
// marker and the identifiers deleted since then. An identifier never appears
// in both lists of the same type.
type Delta struct {
	UpdatedEntries []VaultItem `json:"updated_entries"`
	DeletedEntries []string    `json:"deleted_entries"`
	UpdatedFolders []VaultItem `json:"updated_folders"`
	DeletedFolders []string    `json:"deleted_folders"`
	UpdatedTags    []VaultItem `json:"updated_tags"`
	DeletedTags    []string    `json:"deleted_tags"`
	UpdatedNotes   []VaultItem `json:"updated_notes"`
	DeletedNotes   []string    `json:"deleted_notes"`
}

// Set stores the updated and deleted lists of itemType.
func (d *Delta) Set(itemType ItemType, updated []VaultItem, deleted []string) {
	if updated == nil {
		updated = []VaultItem{}
	}
	if deleted == nil {
		deleted = []string{}
	}

	switch itemType {
	case ItemTypeCredential:
		d.UpdatedEntries, d.DeletedEntries = updated, deleted
	case ItemTypeFolder:
		d.UpdatedFolders, d.DeletedFolders = updated, deleted
	case ItemTypeTag:
		d.UpdatedTags, d.DeletedTags = updated, deleted
	case ItemTypeNote:
		d.UpdatedNotes, d.DeletedNotes = updated, deleted
	}
}

// Updated returns the updated items of itemType.
func (d Delta) Updated(itemType ItemType) []VaultItem {
	switch itemType {
	case ItemTypeCredential:
		return d.UpdatedEntries
	case ItemTypeFolder:
		return d.UpdatedFolders
	case ItemTypeTag:
		return d.UpdatedTags
	case ItemTypeNote:
		return d.UpdatedNotes
	}
	return nil
}

// Deleted returns the deleted identifiers of itemType.
func (d Delta) Deleted(itemType ItemType) []string {
	switch itemType {
	case ItemTypeCredential:
		return d.DeletedEntries
	case ItemTypeFolder:
		return d.DeletedFolders
	case ItemTypeTag:
		return d.DeletedTags
	case ItemTypeNote:
		return d.DeletedNotes
	}
	return nil
}

// TypeStats counts what happened to the items of one type during a sync.
type TypeStats struct {
	Processed int
	Created   int
	Updated   int
	Deleted   int
}

// Add returns the field-wise sum of s and other.
func (s TypeStats) Add(other TypeStats) TypeStats {
	return TypeStats{
		Processed: s.Processed + other.Processed,
		Created:   s.Created + other.Created,
		Updated:   s.Updated + other.Updated,
		Deleted:   s.Deleted + other.Deleted,
	}
}

// SyncStats is the flat per-request counter set reported to the client and
// stored in the sync history.
type SyncStats struct {
	EntriesProcessed int `json:"entries_processed"`
	EntriesCreated   int `json:"entries_created"`
	EntriesUpdated   int `json:"entries_updated"`
	EntriesDeleted   int `json:"entries_deleted"`

	FoldersProcessed int `json:"folders_processed"`
	FoldersCreated   int `json:"folders_created"`
	FoldersUpdated   int `json:"folders_updated"`
	FoldersDeleted   int `json:"folders_deleted"`

	TagsProcessed int `json:"tags_processed"`
	TagsCreated   int `json:"tags_created"`
	TagsUpdated   int `json:"tags_updated"`
	TagsDeleted   int `json:"tags_deleted"`

	NotesProcessed int `json:"notes_processed"`
	NotesCreated   int `json:"notes_created"`
	NotesUpdated   int `json:"notes_updated"`
	NotesDeleted   int `json:"notes_deleted"`

	ConflictsDetected int   `json:"conflicts_detected"`
	DurationMs        int64 `json:"duration_ms"`
}

// Add accumulates ts into the counters of itemType.
func (s *SyncStats) Add(itemType ItemType, ts TypeStats) {
	switch itemType {
	case ItemTypeCredential:
		s.EntriesProcessed += ts.Processed
		s.EntriesCreated += ts.Created
		s.EntriesUpdated += ts.Updated
		s.EntriesDeleted += ts.Deleted
	case ItemTypeFolder:
		s.FoldersProcessed += ts.Processed
		s.FoldersCreated += ts.Created
		s.FoldersUpdated += ts.Updated
		s.FoldersDeleted += ts.Deleted
	case ItemTypeTag:
		s.TagsProcessed += ts.Processed
		s.TagsCreated += ts.Created
		s.TagsUpdated += ts.Updated
		s.TagsDeleted += ts.Deleted
	case ItemTypeNote:
		s.NotesProcessed += ts.Processed
		s.NotesCreated += ts.Created
		s.NotesUpdated += ts.Updated
		s.NotesDeleted += ts.Deleted
	}
}

// For returns the counters of itemType.
func (s SyncStats) For(itemType ItemType) TypeStats {
	switch itemType {
	case ItemTypeCredential:
		return TypeStats{s.EntriesProcessed, s.EntriesCreated, s.EntriesUpdated, s.EntriesDeleted}
	case ItemTypeFolder:
		return TypeStats{s.FoldersProcessed, s.FoldersCreated, s.FoldersUpdated, s.FoldersDeleted}
	case ItemTypeTag:
		return TypeStats{s.TagsProcessed, s.TagsCreated, s.TagsUpdated, s.TagsDeleted}
	case ItemTypeNote:
		return TypeStats{s.NotesProcessed, s.NotesCreated, s.NotesUpdated, s.NotesDeleted}
	}
	return TypeStats{}
}
