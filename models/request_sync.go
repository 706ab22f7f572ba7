// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncRequest is the batch of mutations a device sends in one synchronization
// call, together with the marker of its previous successful sync.
type SyncRequest struct {
	// ClientVersion is the global version the client last saw. It is
	// informational only and is copied into the sync history.
	ClientVersion int64 `json:"client_version"`

	// LastSyncTime is the SyncedAt value of the client's previous successful
	// sync. Nil asks for a full snapshot.
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`

	Entries []Change `json:"entries,omitempty"`
	Folders []Change `json:"folders,omitempty"`
	Tags    []Change `json:"tags,omitempty"`
	Notes   []Change `json:"notes,omitempty"`

	DeletedEntries []string `json:"deleted_entries,omitempty"`
	DeletedFolders []string `json:"deleted_folders,omitempty"`
	DeletedTags    []string `json:"deleted_tags,omitempty"`
	DeletedNotes   []string `json:"deleted_notes,omitempty"`
}

// Changes returns the creates and updates submitted for itemType.
func (r SyncRequest) Changes(itemType ItemType) []Change {
	switch itemType {
	case ItemTypeCredential:
		return r.Entries
	case ItemTypeFolder:
		return r.Folders
	case ItemTypeTag:
		return r.Tags
	case ItemTypeNote:
		return r.Notes
	}
	return nil
}

// Deletions returns the identifiers the client deleted for itemType.
func (r SyncRequest) Deletions(itemType ItemType) []string {
	switch itemType {
	case ItemTypeCredential:
		return r.DeletedEntries
	case ItemTypeFolder:
		return r.DeletedFolders
	case ItemTypeTag:
		return r.DeletedTags
	case ItemTypeNote:
		return r.DeletedNotes
	}
	return nil
}
