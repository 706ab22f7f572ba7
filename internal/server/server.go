package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/handler"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

// transport is one listening protocol server.
type transport interface {
	Addr() string
	RunServer()
	Shutdown()
}

type server struct {
	httpSrv *httpServer
	grpcSrv *grpcServer
	logger  *logger.Logger

	stopOnce sync.Once
}

// NewServer binds a listener for every transport that has both a handler and
// an address. Nothing is served until RunServer is called.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	s := &server{logger: logger}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		srv, err := newHTTPServer(handlers.HTTP.Init(), cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("error creating HTTP server: %w", err)
		}
		s.httpSrv = srv
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		srv, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			s.Shutdown()
			return nil, fmt.Errorf("error creating gRPC server: %w", err)
		}
		s.grpcSrv = srv
	}

	if len(s.transports()) == 0 {
		return nil, errNoServersAreCreated
	}
	return s, nil
}

func (s *server) transports() map[string]transport {
	out := make(map[string]transport, 2)
	if s.httpSrv != nil {
		out["http"] = s.httpSrv
	}
	if s.grpcSrv != nil {
		out["grpc"] = s.grpcSrv
	}
	return out
}

// RunServer blocks until SIGTERM, SIGINT or SIGQUIT arrives.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := s.run(ctx); err != nil {
		s.logger.Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	s.stopOnce.Do(func() {
		for _, t := range s.transports() {
			t.Shutdown()
		}
	})
}

// run serves every transport until ctx is done, then stops them and waits
// for the serve loops to return.
func (s *server) run(ctx context.Context) error {
	transports := s.transports()
	if len(transports) == 0 {
		return errNoServersAreCreated
	}

	var wg sync.WaitGroup
	for name, t := range transports {
		s.logger.Info().Str("transport", name).Str("addr", t.Addr()).Msg("serving")
		wg.Go(t.RunServer)
	}

	<-ctx.Done()
	s.Shutdown()
	wg.Wait()

	s.logger.Info().Msg("all transports stopped")
	return nil
}
