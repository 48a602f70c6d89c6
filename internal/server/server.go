package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Closer releases a resource during shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// Server owns the HTTP listener and the resources torn down after it.
type Server struct {
	http    *http.Server
	closers []Closer
	logger  *zap.Logger
}

// New wraps handler in an http.Server listening on port.
func New(port int, handler http.Handler, logger *zap.Logger, closers ...Closer) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		closers: closers,
		logger:  logger,
	}
}

// Run serves until the listener fails or SIGINT/SIGTERM arrives, then shuts down.
func (s *Server) Run() error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.http.Addr))
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeResources()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests, then closes resources in reverse order.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("http server shutdown failed", zap.Error(err))
		shutdownErr = err
	}
	if err := s.closeResources(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}
	s.logger.Info("server stopped")
	return shutdownErr
}

func (s *Server) closeResources() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if c.Close == nil {
			continue
		}
		if err := c.Close(); err != nil {
			s.logger.Error("close resource failed", zap.String("resource", c.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
		}
	}
	return errors.Join(errs...)
}
