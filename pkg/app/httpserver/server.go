// Package httpserver runs the operational and management HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/config"
)

const defaultDrainTimeout = 30 * time.Second

// Server is an HTTP server bound to a listener. Binding happens in Listen so that a port
// conflict fails startup before any event is consumed.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *zap.Logger
}

// New builds a Server for handler using the configured address and timeouts.
func New(cfg config.ServerConfig, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger.Named("http"),
	}
}

// Listen binds the configured address. Port 0 picks a free port; Addr reports it.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.srv.Addr
}

// Serve accepts connections until ctx is done, then drains in-flight requests for at most
// drain. Serve calls Listen itself when the server is not yet bound.
func (s *Server) Serve(ctx context.Context, drain time.Duration) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	if drain <= 0 {
		drain = defaultDrainTimeout
	}

	served := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", s.Addr()))
		err := s.srv.Serve(s.ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		served <- err
	}()

	select {
	case err := <-served:
		if err != nil {
			s.logger.Error("HTTP server failed", zap.Error(err))
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Draining HTTP server", zap.Duration("timeout", drain))
	drainCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()

	if err := s.srv.Shutdown(drainCtx); err != nil {
		_ = s.srv.Close()
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-served; err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
