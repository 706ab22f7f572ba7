// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Operation is the kind of mutation a client asks the server to apply.
type Operation string

const (
	// OperationCreate inserts a new item. The server assigns the identifier.
	OperationCreate Operation = "CREATE"

	// OperationUpdate rewrites the payload of an existing item. ID and
	// Version of the [Change] are required.
	OperationUpdate Operation = "UPDATE"
)

// Change is a single client mutation of one vault item.
type Change struct {
	// ID identifies the item being updated. Ignored for CREATE.
	ID *string `json:"id,omitempty"`

	// Operation is CREATE or UPDATE.
	Operation Operation `json:"operation"`

	// Version is the item version the client last saw. Required for UPDATE.
	Version *int64 `json:"version,omitempty"`

	// LastModified is the client's claim of when the user made the edit.
	// It is used only to arbitrate conflicts and is never stored.
	LastModified *time.Time `json:"last_modified,omitempty"`

	ItemPayload
}

// ItemID returns the dereferenced ID or an empty string.
func (c Change) ItemID() string {
	if c.ID == nil {
		return ""
	}
	return *c.ID
}

// ClientVersion returns the dereferenced Version or zero.
func (c Change) ClientVersion() int64 {
	if c.Version == nil {
		return 0
	}
	return *c.Version
}

// TypedChange binds a [Change] to the item type it was submitted for.
type TypedChange struct {
	Type ItemType
	Change
}
