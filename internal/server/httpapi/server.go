// Package httpapi exposes the auth core over HTTP/JSON: registration, login,
// refresh-token exchange, logout, and a bearer-token request gate for the
// protected endpoints.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/tickpulse/tickpulse/internal/logging"
	"github.com/tickpulse/tickpulse/internal/server/services"
)

// HTTPServer serves the public JSON API.
type HTTPServer struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	db      *sql.DB
}

// NewHTTPServer constructs an HTTPServer bound to the given address.
func NewHTTPServer(address string, l logging.Logger, auth *services.AuthService, db *sql.DB) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		auth:    auth,
		db:      db,
	}
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.buildRouter(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
