package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/handler"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
)

type server struct {
	httpServer *httpServer
	address    string
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.ClientCallback, logger *logger.Logger) (Server, error) {
	if handlers == nil || handlers.HTTP == nil || cfg.Address == "" {
		return nil, errNoCallbackServer
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg.Address, logger),
		address:    cfg.Address,
		logger:     logger,
	}, nil
}

func (s *server) RunServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.run()
	}()
	s.logger.Info().Str("address", s.address).Msg("callback server listening")

	select {
	case <-ctx.Done():
		s.Shutdown()
		if err := <-errCh; err != nil {
			return err
		}
		s.logger.Info().Msg("callback server shut down gracefully")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("callback server on %s: %w", s.address, err)
		}
		return nil
	}
}

func (s *server) Shutdown() {
	s.httpServer.shutdown()
}
