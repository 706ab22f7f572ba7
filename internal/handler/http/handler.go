package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/service"
	"github.com/MKhiriev/go-vault-sync/internal/telemetry"
)

type Handler struct {
	services *service.Services

	requestTimeout time.Duration
	httpMetrics    *telemetry.HTTPMetrics
	metricsHandler http.Handler

	logger *logger.Logger
}

// Option customises a Handler.
type Option func(*Handler)

// WithRequestTimeout bounds the processing time of every request. Zero
// disables the limit.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		h.requestTimeout = timeout
	}
}

// WithMetrics records request metrics with m and serves exposition at
// GET /metrics through exposition when it is not nil.
func WithMetrics(m *telemetry.HTTPMetrics, exposition http.Handler) Option {
	return func(h *Handler) {
		h.httpMetrics = m
		h.metricsHandler = exposition
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Msg("http handler created")
	return h
}
