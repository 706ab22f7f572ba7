// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client side of the vault sync API.
//
// [ServerAdapter] talks to the HTTP API and covers the whole surface:
// registration, login, synchronization, history and version. [SyncAdapter]
// is the subset that is also served over gRPC ([NewGRPCSyncAdapter]).
//
// Transport failures are mapped to the sentinel errors of this package so
// callers can use [errors.Is] regardless of the protocol (e.g.
// [ErrUnauthorized] for HTTP 401 and codes.Unauthenticated alike).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-vault-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SyncAdapter sends synchronization calls on behalf of an authenticated user.
type SyncAdapter interface {
	// Synchronize submits req and returns the server's answer. A response
	// with Success == false is still returned without an error: the server
	// received the request but aborted the sync.
	Synchronize(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error)

	// History returns the latest sync attempts of the user, newest first.
	// Zero limit selects the server default.
	History(ctx context.Context, limit int) ([]models.SyncHistory, error)
}

// TokenSource provides the bearer token attached to authenticated calls.
type TokenSource interface {
	Token() string
}

// ServerAdapter is the full HTTP client of the vault sync server.
type ServerAdapter interface {
	SyncAdapter
	TokenSource

	// SetToken replaces the bearer token used by authenticated calls.
	SetToken(token string)

	// Register creates the account and stores the issued token.
	Register(ctx context.Context, user models.User) error

	// Login authenticates the user and stores the issued token.
	Login(ctx context.Context, user models.User) error

	// Version returns the version string reported by the server.
	Version(ctx context.Context) (string, error)
}
