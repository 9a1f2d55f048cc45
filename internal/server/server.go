// Package server exposes the report extraction service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/starhawk-ag/drone-pdf-extractor/internal/config"
	"github.com/starhawk-ag/drone-pdf-extractor/internal/report"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// ReportService is the extraction surface the HTTP handlers depend on.
type ReportService interface {
	ExtractFile(ctx context.Context, path string, opts report.Options) (*report.ReportRecord, error)
	ExtractBytes(ctx context.Context, name string, data []byte, opts report.Options) (*report.ReportRecord, error)
}

// Server is the HTTP boundary in front of the extraction service
type Server struct {
	config     *config.Config
	svc        ReportService
	httpServer *http.Server
}

// New creates a new HTTP server instance
func New(cfg *config.Config, svc ReportService) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("report service cannot be nil")
	}

	s := &Server{
		config: cfg,
		svc:    svc,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/extract-drone-data", s.handleExtract)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.withRequestLog(s.withCORS(s.withRecovery(mux))),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.config.Address()).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
