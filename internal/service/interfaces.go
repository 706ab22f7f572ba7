// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/models"
)

// SyncService is the vault synchronization engine.
type SyncService interface {
	// Synchronize applies the client's batch of changes and deletions on
	// behalf of userID and returns what the client must pull. It never
	// returns a bare error: failures are reported through
	// SyncResponse.Success and SyncResponse.ErrorMessage.
	Synchronize(ctx context.Context, userID int64, req models.SyncRequest, origin models.RequestOrigin) models.SyncResponse

	// History lists the latest sync attempts of userID, newest first.
	History(ctx context.Context, userID int64, limit int) ([]models.SyncHistory, error)
}

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// ConflictResolver decides which side wins when a client updates an item
// from a stale version.
type ConflictResolver interface {
	Resolve(itemType models.ItemType, change models.Change, server models.VaultItem, now time.Time) models.Conflict
}

// VersionCounter is the coarse global server marker. It is bookkeeping
// only and plays no part in per-item conflict detection.
type VersionCounter interface {
	Current() int64
	Advance() int64
}

// IDGenerator produces identifiers for new items and history records.
type IDGenerator interface {
	Generate() string
}

// SyncMetrics observes finished sync attempts.
type SyncMetrics interface {
	ObserveSync(ctx context.Context, status models.SyncStatus, stats models.SyncStats, duration time.Duration)
}
