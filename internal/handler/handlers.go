// Package handler builds the transport handlers enabled by the server
// configuration.
package handler

import (
	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-vault-sync/internal/handler/http"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/service"
)

// Handlers holds one handler per transport. A nil field means the transport
// has no address configured.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates the handlers for every configured address. httpOpts
// are applied after the request timeout taken from cfg.
func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger, httpOpts ...http.Option) (*Handlers, error) {
	var handlers Handlers

	if cfg.HTTPAddress != "" {
		opts := make([]http.Option, 0, len(httpOpts)+1)
		opts = append(opts, http.WithRequestTimeout(cfg.RequestTimeout))
		handlers.HTTP = http.NewHandler(services, logger, append(opts, httpOpts...)...)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	logger.Info().
		Bool("http", handlers.HTTP != nil).
		Bool("grpc", handlers.GRPC != nil).
		Msg("handlers created")

	return &handlers, nil
}
