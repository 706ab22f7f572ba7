package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/go-resty/resty/v2"
)

const (
	deviceIDHeader = "X-Device-ID"
	userAgent      = "go-vault-sync-client"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the HTTP implementation of [ServerAdapter].
// The base URL is taken from cfg.ServerAddress; a missing scheme defaults to
// http. cfg.DeviceID, when set, is sent with every request so the server can
// attribute sync history entries to the device.
func NewHTTPServerAdapter(cfg config.ClientConfig, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, cfg.RequestTimeout, cfg.Retries)
	client.SetHeader("User-Agent", userAgent)
	if deviceID := strings.TrimSpace(cfg.DeviceID); deviceID != "" {
		client.SetHeader(deviceIDHeader, deviceID)
	}

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	h.token = strings.TrimSpace(token)
	h.mu.Unlock()
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. On success the bearer token is taken
// from the Authorization response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) error {
	return h.authenticate(ctx, "/api/user/register", user)
}

// Login implements [ServerAdapter]. On success the bearer token is taken from
// the Authorization response header.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) error {
	return h.authenticate(ctx, "/api/user/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post(path)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	header := resp.Header().Get("Authorization")
	if header == "" {
		return ErrMissingToken
	}
	token, err := utils.ParseBearerToken(header)
	if err != nil {
		return fmt.Errorf("parse bearer token: %w", err)
	}

	h.SetToken(token)
	h.logger.Debug().Str("login", user.Login).Str("path", path).Msg("token received")
	return nil
}

// Synchronize implements [SyncAdapter] by POSTing req to /api/vault/sync.
func (h *httpServerAdapter) Synchronize(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return models.SyncResponse{}, err
	}

	resp, err := r.
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/vault/sync")
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("sync request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResponse{}, err
	}

	var syncResp models.SyncResponse
	if err = json.Unmarshal(resp.Body(), &syncResp); err != nil {
		return models.SyncResponse{}, fmt.Errorf("decode sync response: %w", err)
	}
	return syncResp, nil
}

// History implements [SyncAdapter] with GET /api/vault/sync/history.
func (h *httpServerAdapter) History(ctx context.Context, limit int) ([]models.SyncHistory, error) {
	r, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := r.Get("/api/vault/sync/history")
	if err != nil {
		return nil, fmt.Errorf("history request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var history []models.SyncHistory
	if err = json.Unmarshal(resp.Body(), &history); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}
	return history, nil
}

func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp.Body())), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", utils.BearerHeader(token)), nil
}
