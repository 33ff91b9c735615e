// Package server owns the process lifecycle of the folio authentication
// server: the HTTP listener, background workers, and graceful shutdown on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/foliocms/folio/internal/config"
	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/workers"
)

// shutdownGrace bounds how long in-flight requests may run after a
// shutdown signal before the listener is torn down.
const shutdownGrace = 10 * time.Second

// Server couples the HTTP listener with the background workers so both
// stop together.
type Server struct {
	httpServer *http.Server
	workers    []workers.Worker
	logger     *logger.Logger
}

// NewServer constructs a Server from the assembled router and workers.
func NewServer(cfg *config.StructuredConfig, router http.Handler, jobs []workers.Worker, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.HTTPAddress,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		workers: jobs,
		logger:  log,
	}
}

// Run starts the workers and the HTTP listener and blocks until the
// process receives SIGINT or SIGTERM, then shuts both down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	for _, worker := range s.workers {
		go worker.Run(ctx)
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.logger.Info().Msg("server stopped")

	return nil
}
