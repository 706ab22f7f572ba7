// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

const (
	forwardedForHeader = "X-Forwarded-For"
	deviceIDHeader     = "X-Device-ID"
)

// synchronize runs one sync for the authenticated user. Once the body is
// decoded the answer is always 200: the outcome is carried in
// SyncResponse.Success.
func (h *Handler) synchronize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.synchronize").Msg("no user ID was given")
		http.Error(w, ErrNoUserInContext.Error(), http.StatusUnauthorized)
		return
	}

	var req models.SyncRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.synchronize").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp := h.services.SyncService.Synchronize(ctx, userID, req, requestOrigin(r))

	if _, err := utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.synchronize").Msg("error writing sync response")
	}
}

func (h *Handler) syncHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncHistory").Msg("no user ID was given")
		http.Error(w, ErrNoUserInContext.Error(), http.StatusUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, ErrInvalidLimit)
			return
		}
		limit = parsed
	}

	history, err := h.services.SyncService.History(ctx, userID, limit)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncHistory").Msg("error listing sync history")
		writeError(w, err)
		return
	}
	if history == nil {
		history = []models.SyncHistory{}
	}

	utils.WriteJSON(w, history, http.StatusOK)
}

// requestOrigin describes the calling device. The first X-Forwarded-For
// hop wins over the socket address.
func requestOrigin(r *http.Request) models.RequestOrigin {
	return models.RequestOrigin{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		DeviceID:  strings.TrimSpace(r.Header.Get(deviceIDHeader)),
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(forwardedForHeader); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
