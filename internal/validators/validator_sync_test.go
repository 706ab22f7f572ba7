// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func validCredentialUpdate() models.TypedChange {
	return models.TypedChange{
		Type: models.ItemTypeCredential,
		Change: models.Change{
			ID:          strPtr("c-1"),
			Operation:   models.OperationUpdate,
			Version:     int64Ptr(3),
			ItemPayload: models.ItemPayload{EncryptedData: "cipher", IV: "iv", AuthTag: "tag"},
		},
	}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestSyncValidator_Dispatch(t *testing.T) {
	v := NewSyncValidator()
	ctx := context.Background()

	require.ErrorIs(t, v.Validate(ctx, 42), ErrUnsupportedType)

	change := validCredentialUpdate()
	assert.NoError(t, v.Validate(ctx, change))
	assert.NoError(t, v.Validate(ctx, &change))

	user := models.User{Login: "alice", Password: "secret"}
	assert.NoError(t, v.Validate(ctx, user))
	assert.NoError(t, v.Validate(ctx, &user))
}

// ---------------------------------------------------------------------------
// Changes
// ---------------------------------------------------------------------------

func TestSyncValidator_Change(t *testing.T) {
	v := NewSyncValidator()

	tests := []struct {
		name   string
		modify func(c *models.TypedChange)
		want   error
	}{
		{name: "valid update"},
		{
			name:   "create without id and version",
			modify: func(c *models.TypedChange) { c.Operation, c.ID, c.Version = models.OperationCreate, nil, nil },
		},
		{name: "unknown type", modify: func(c *models.TypedChange) { c.Type = "card" }, want: ErrInvalidItemType},
		{name: "unknown operation", modify: func(c *models.TypedChange) { c.Operation = "DELETE" }, want: ErrInvalidOperation},
		{name: "update without id", modify: func(c *models.TypedChange) { c.ID = nil }, want: ErrInvalidItemID},
		{name: "update with empty id", modify: func(c *models.TypedChange) { c.ID = strPtr("") }, want: ErrInvalidItemID},
		{name: "update without version", modify: func(c *models.TypedChange) { c.Version = nil }, want: ErrInvalidVersion},
		{name: "update with version zero", modify: func(c *models.TypedChange) { c.Version = int64Ptr(0) }, want: ErrInvalidVersion},
		{name: "credential without ciphertext", modify: func(c *models.TypedChange) { c.EncryptedData = "" }, want: ErrEmptyEncryptedData},
		{name: "empty folder reference", modify: func(c *models.TypedChange) { c.FolderID = strPtr("") }, want: ErrInvalidFolderRef},
		{
			name: "note in a folder",
			modify: func(c *models.TypedChange) {
				c.Type = models.ItemTypeNote
				c.FolderID = strPtr("f-1")
			},
		},
		{
			name: "folder without name",
			modify: func(c *models.TypedChange) {
				c.Type = models.ItemTypeFolder
				c.ItemPayload = models.ItemPayload{}
			},
			want: ErrEmptyName,
		},
		{
			name: "folder with empty parent",
			modify: func(c *models.TypedChange) {
				c.Type = models.ItemTypeFolder
				c.ItemPayload = models.ItemPayload{Name: "work", ParentID: strPtr("")}
			},
			want: ErrInvalidFolderRef,
		},
		{
			name: "tag with name only",
			modify: func(c *models.TypedChange) {
				c.Type = models.ItemTypeTag
				c.ItemPayload = models.ItemPayload{Name: "urgent"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := validCredentialUpdate()
			if tt.modify != nil {
				tt.modify(&change)
			}

			err := v.Validate(context.Background(), change)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSyncValidator_Change_Fields(t *testing.T) {
	v := NewSyncValidator()
	change := validCredentialUpdate()
	change.EncryptedData = ""

	assert.NoError(t, v.Validate(context.Background(), change, FieldID, FieldVersion))
	assert.ErrorIs(t, v.Validate(context.Background(), change, FieldPayload), ErrEmptyEncryptedData)
	assert.ErrorIs(t, v.Validate(context.Background(), change, "hash"), ErrUnknownField)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestSyncValidator_User(t *testing.T) {
	v := NewSyncValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.User{Password: "p"}), ErrInvalidLogin)
	assert.ErrorIs(t, v.Validate(ctx, models.User{Login: strings.Repeat("x", 256), Password: "p"}), ErrInvalidLogin)
	assert.ErrorIs(t, v.Validate(ctx, models.User{Login: "alice"}), ErrInvalidPassword)
	assert.NoError(t, v.Validate(ctx, models.User{Login: "alice"}, FieldLogin))
	assert.ErrorIs(t, v.Validate(ctx, models.User{Login: "alice"}, "email"), ErrUnknownField)
}

// ---------------------------------------------------------------------------
// History limit
// ---------------------------------------------------------------------------

func TestHistoryLimit(t *testing.T) {
	got, err := HistoryLimit(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryLimit, got)

	got, err = HistoryLimit(MaxHistoryLimit)
	require.NoError(t, err)
	assert.Equal(t, MaxHistoryLimit, got)

	_, err = HistoryLimit(-1)
	assert.ErrorIs(t, err, ErrInvalidHistoryLimit)

	_, err = HistoryLimit(MaxHistoryLimit + 1)
	assert.ErrorIs(t, err, ErrInvalidHistoryLimit)
}
