package store

import "github.com/MKhiriev/go-vault-sync/models"

// itemTable describes how one item type is laid out in its table. Every
// table shares the identity, version and timestamp columns and adds its own
// payload columns.
type itemTable struct {
	itemType       models.ItemType
	name           string
	payloadColumns []string
	payloadArgs    func(p models.ItemPayload) []any
	payloadDest    func(p *models.ItemPayload) []any
}

var (
	credentialsTable = itemTable{
		itemType:       models.ItemTypeCredential,
		name:           "credentials",
		payloadColumns: cipheredPayloadColumns,
		payloadArgs:    cipheredPayloadArgs,
		payloadDest:    cipheredPayloadDest,
	}

	notesTable = itemTable{
		itemType:       models.ItemTypeNote,
		name:           "notes",
		payloadColumns: cipheredPayloadColumns,
		payloadArgs:    cipheredPayloadArgs,
		payloadDest:    cipheredPayloadDest,
	}

	foldersTable = itemTable{
		itemType:       models.ItemTypeFolder,
		name:           "folders",
		payloadColumns: []string{"name", "parent_id"},
		payloadArgs: func(p models.ItemPayload) []any {
			return []any{p.Name, p.ParentID}
		},
		payloadDest: func(p *models.ItemPayload) []any {
			return []any{&p.Name, &p.ParentID}
		},
	}

	tagsTable = itemTable{
		itemType:       models.ItemTypeTag,
		name:           "tags",
		payloadColumns: []string{"name", "color"},
		payloadArgs: func(p models.ItemPayload) []any {
			return []any{p.Name, p.Color}
		},
		payloadDest: func(p *models.ItemPayload) []any {
			return []any{&p.Name, &p.Color}
		},
	}

	itemTables = []itemTable{credentialsTable, foldersTable, tagsTable, notesTable}
)

var cipheredPayloadColumns = []string{"encrypted_data", "iv", "auth_tag", "folder_id"}

func cipheredPayloadArgs(p models.ItemPayload) []any {
	return []any{string(p.EncryptedData), p.IV, p.AuthTag, p.FolderID}
}

func cipheredPayloadDest(p *models.ItemPayload) []any {
	return []any{(*string)(&p.EncryptedData), &p.IV, &p.AuthTag, &p.FolderID}
}

// columns returns the full select list in scan order.
func (t itemTable) columns() []string {
	cols := make([]string, 0, len(t.payloadColumns)+7)
	cols = append(cols, "id", "user_id")
	cols = append(cols, t.payloadColumns...)
	return append(cols, "version", "created_at", "updated_at", "deleted_at")
}

func (t itemTable) insertArgs(item models.VaultItem) []any {
	args := make([]any, 0, len(t.payloadColumns)+7)
	args = append(args, item.ID, item.UserID)
	args = append(args, t.payloadArgs(item.ItemPayload)...)
	return append(args, item.Version, item.CreatedAt, item.UpdatedAt, item.DeletedAt)
}

func (t itemTable) scanDest(item *models.VaultItem) []any {
	dest := make([]any, 0, len(t.payloadColumns)+7)
	dest = append(dest, &item.ID, &item.UserID)
	dest = append(dest, t.payloadDest(&item.ItemPayload)...)
	return append(dest, &item.Version, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
}

// usesFolders reports whether items of this table are placed into folders.
func (t itemTable) usesFolders() bool {
	return t.itemType == models.ItemTypeCredential || t.itemType == models.ItemTypeNote
}
