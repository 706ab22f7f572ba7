// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncStatus is the overall outcome of one synchronization attempt.
type SyncStatus string

const (
	SyncStatusSuccess          SyncStatus = "SUCCESS"
	SyncStatusConflictDetected SyncStatus = "CONFLICT_DETECTED"
	SyncStatusFailed           SyncStatus = "FAILED"
)

// RequestOrigin describes where a sync request came from.
type RequestOrigin struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	DeviceID  string `json:"device_id,omitempty"`
}

// SyncHistory is an append-only audit record of one synchronization attempt.
// One record is written for every attempt, failed ones included.
type SyncHistory struct {
	ID                  string     `json:"id"`
	UserID              int64      `json:"-"`
	ClientVersion       int64      `json:"client_version"`
	ServerVersionBefore int64      `json:"server_version_before"`
	ServerVersionAfter  int64      `json:"server_version_after"`
	Status              SyncStatus `json:"status"`

	Stats SyncStats `json:"stats"`

	Origin       RequestOrigin `json:"origin"`
	ErrorMessage *string       `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
