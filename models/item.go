// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ItemType identifies one of the four kinds of vault items that take part in
// synchronization.
type ItemType string

const (
	// ItemTypeCredential is a login/password style entry. In request and
	// response field names credentials are called "entries".
	ItemTypeCredential ItemType = "credential"

	// ItemTypeFolder is a (possibly nested) container for credentials and notes.
	ItemTypeFolder ItemType = "folder"

	// ItemTypeTag is a free-form label.
	ItemTypeTag ItemType = "tag"

	// ItemTypeNote is an encrypted secure note.
	ItemTypeNote ItemType = "note"
)

// ItemTypes lists every item type in the order a sync request processes them.
var ItemTypes = []ItemType{
	ItemTypeCredential,
	ItemTypeFolder,
	ItemTypeTag,
	ItemTypeNote,
}

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeCredential, ItemTypeFolder, ItemTypeTag, ItemTypeNote:
		return true
	}
	return false
}

// String implements [fmt.Stringer].
func (t ItemType) String() string {
	return string(t)
}

// ItemPayload carries the type-specific content of a vault item.
//
// The server never decrypts or interprets EncryptedData, IV or AuthTag. The
// structural fields (FolderID, ParentID) are read only by the storage layer to
// enforce folder placement rules. Fields that do not apply to an item type are
// ignored when the item is stored.
type ItemPayload struct {
	// EncryptedData is the client-side encrypted body of a credential or note.
	EncryptedData CipheredData `json:"encrypted_data,omitempty"`

	// IV is the initialisation vector used to encrypt EncryptedData.
	IV string `json:"iv,omitempty"`

	// AuthTag is the AEAD authentication tag of EncryptedData.
	AuthTag string `json:"auth_tag,omitempty"`

	// FolderID places a credential or a note into a folder. Nil means the
	// item lives at the vault root.
	FolderID *string `json:"folder_id,omitempty"`

	// Name is the display name of a folder or a tag.
	Name string `json:"name,omitempty"`

	// ParentID nests a folder under another folder. Nil means a top-level
	// folder.
	ParentID *string `json:"parent_id,omitempty"`

	// Color is an optional tag color.
	Color string `json:"color,omitempty"`
}

// VaultItem is the server-side representation of a single synchronizable
// entity (credential, folder, tag or note).
//
// Version starts at 1 and grows by exactly one for every accepted mutation,
// soft-deletion included. DeletedAt is nil while the item is active.
type VaultItem struct {
	ID     string   `json:"id"`
	UserID int64    `json:"-"`
	Type   ItemType `json:"type"`

	ItemPayload

	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the item has not been soft-deleted.
func (i VaultItem) Active() bool {
	return i.DeletedAt == nil
}
