package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crmlake/pkg/logger"
)

// Server is the dashboard HTTP server. It only reads artifacts the
// pipeline wrote; it never takes part in a run.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates a dashboard server on the given port.
func NewServer(port string, router http.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Start starts the server and blocks until it is shut down.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting dashboard server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down dashboard server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
