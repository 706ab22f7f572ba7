// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSynchronize(t *testing.T) {
	h, m := newMockedHandler(t)

	since := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	wantReq := models.SyncRequest{
		ClientVersion:  4,
		LastSyncTime:   &since,
		DeletedEntries: []string{"c-1"},
	}
	wantOrigin := models.RequestOrigin{IPAddress: "203.0.113.9", UserAgent: "vault-cli/1.0", DeviceID: "laptop"}

	m.sync.EXPECT().
		Synchronize(gomock.Any(), int64(7), gomock.Any(), wantOrigin).
		DoAndReturn(func(_ any, _ int64, req models.SyncRequest, _ models.RequestOrigin) models.SyncResponse {
			assert.Equal(t, wantReq.ClientVersion, req.ClientVersion)
			assert.True(t, since.Equal(*req.LastSyncTime))
			assert.Equal(t, wantReq.DeletedEntries, req.DeletedEntries)
			return models.SyncResponse{
				Success:       true,
				ServerVersion: 11,
				SyncedAt:      since.Add(time.Hour),
				Conflicts:     []models.Conflict{},
				DeltaUpdates:  &models.Delta{DeletedEntries: []string{"c-1"}},
				Stats:         models.SyncStats{EntriesDeleted: 1},
			}
		})

	body := `{"client_version":4,"last_sync_time":"2024-01-02T00:00:00Z","deleted_entries":["c-1"]}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/vault/sync", strings.NewReader(body)), 7)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "vault-cli/1.0")
	req.Header.Set("X-Device-ID", "laptop")

	rec := serve(h.synchronize, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.SyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, int64(11), got.ServerVersion)
	require.NotNil(t, got.DeltaUpdates)
	assert.Equal(t, []string{"c-1"}, got.DeltaUpdates.DeletedEntries)
	assert.Equal(t, 1, got.Stats.EntriesDeleted)
}

func TestSynchronize_FailureIsStill200(t *testing.T) {
	h, m := newMockedHandler(t)

	msg := "user not found"
	m.sync.EXPECT().Synchronize(gomock.Any(), int64(3), gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{Success: false, ServerVersion: 5, ErrorMessage: &msg})

	rec := serve(h.synchronize, asUser(httptest.NewRequest(http.MethodPost, "/api/vault/sync", strings.NewReader(`{}`)), 3))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), `"error_message":"user not found"`)
	assert.NotContains(t, rec.Body.String(), "delta_updates")
}

func TestSynchronize_RejectsBadInput(t *testing.T) {
	h, _ := newMockedHandler(t)

	noUser := withNopLogger(httptest.NewRequest(http.MethodPost, "/api/vault/sync", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, serve(h.synchronize, noUser).Code)

	brokenJSON := asUser(httptest.NewRequest(http.MethodPost, "/api/vault/sync", strings.NewReader(`{"entries":`)), 1)
	assert.Equal(t, http.StatusBadRequest, serve(h.synchronize, brokenJSON).Code)

	wrongShape := asUser(httptest.NewRequest(http.MethodPost, "/api/vault/sync", strings.NewReader(`{"entries":"nope"}`)), 1)
	assert.Equal(t, http.StatusBadRequest, serve(h.synchronize, wrongShape).Code)
}

func TestSyncHistory(t *testing.T) {
	created := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		history    []models.SyncHistory
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "default limit",
			wantLimit:  0,
			history:    []models.SyncHistory{{ID: "h-1", Status: models.SyncStatusSuccess, CreatedAt: created}},
			wantStatus: http.StatusOK,
			wantBody:   `"id":"h-1"`,
		},
		{
			name:       "explicit limit",
			query:      "?limit=5",
			wantLimit:  5,
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name:       "limit out of range",
			query:      "?limit=1000",
			wantLimit:  1000,
			err:        fmt.Errorf("%w: limit too large", service.ErrInvalidDataProvided),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage failure",
			query:      "?limit=3",
			wantLimit:  3,
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)
			m.sync.EXPECT().History(gomock.Any(), int64(7), tt.wantLimit).Return(tt.history, tt.err)

			rec := serve(h.syncHistory, asUser(httptest.NewRequest(http.MethodGet, "/api/vault/sync/history"+tt.query, nil), 7))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestSyncHistory_NonNumericLimit(t *testing.T) {
	h, _ := newMockedHandler(t)

	rec := serve(h.syncHistory, asUser(httptest.NewRequest(http.MethodGet, "/api/vault/sync/history?limit=ten", nil), 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrInvalidLimit.Error())
}

func TestRequestOrigin(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		wantIP     string
	}{
		{name: "socket address", remoteAddr: "192.0.2.1:1234", wantIP: "192.0.2.1"},
		{name: "forwarded chain", remoteAddr: "10.0.0.1:80", forwarded: "198.51.100.7, 10.0.0.1", wantIP: "198.51.100.7"},
		{name: "blank forwarded", remoteAddr: "10.0.0.1:80", forwarded: " , 10.0.0.2", wantIP: "10.0.0.1"},
		{name: "ipv6 socket", remoteAddr: "[2001:db8::1]:443", wantIP: "2001:db8::1"},
		{name: "address without port", remoteAddr: "pipe", wantIP: "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			req.Header.Set("User-Agent", "ua")
			req.Header.Set("X-Device-ID", "  phone ")

			origin := requestOrigin(req)

			assert.Equal(t, tt.wantIP, origin.IPAddress)
			assert.Equal(t, "ua", origin.UserAgent)
			assert.Equal(t, "phone", origin.DeviceID)
		})
	}
}
