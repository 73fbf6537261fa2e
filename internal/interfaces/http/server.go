package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mofml/ffpgen/internal/config"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with the service's lifecycle conventions.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer builds a Server listening on the configured port.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Start serves until Shutdown is called.  A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
