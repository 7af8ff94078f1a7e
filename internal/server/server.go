// Package server exposes the admin-facing hooks of the batch-export host:
// the tool options and descriptions the admin UI renders, and the step
// endpoint the UI polls once per AJAX call until the job reports done.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arraypress/edd-register-recount-tools/config"
	"github.com/arraypress/edd-register-recount-tools/internal/batch"
	"github.com/arraypress/edd-register-recount-tools/internal/logger"
	"github.com/arraypress/edd-register-recount-tools/internal/recount"
)

// Server hosts the admin and batch endpoints
type Server struct {
	cfg      *config.Config
	registry *recount.Registry
	factory  *batch.Factory
	server   *http.Server
}

// NewServer creates a server bound to a registry and class factory
func NewServer(cfg *config.Config, registry *recount.Registry, factory *batch.Factory) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		factory:  factory,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/recount/options", s.handleOptions)
	mux.HandleFunc("/admin/recount/descriptions", s.handleDescriptions)
	mux.HandleFunc("/batch/step", s.handleStep)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start runs the server until the context is cancelled or a signal arrives
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Server.Addr()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
	}

	go s.handleShutdown(ctx)

	logger.Info("batch-export host started", "addr", addr, "tools", s.registry.Len())

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) handleShutdown(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
