// SPDX-License-Identifier: AGPL-3.0-only

// Package api serves the dashboard REST endpoints over the logistics store.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/seshasairaw/smarthub-operations/internal/auth"
	"github.com/seshasairaw/smarthub-operations/internal/config"
	"github.com/seshasairaw/smarthub-operations/internal/logging"
	"github.com/seshasairaw/smarthub-operations/internal/store"
)

// Server is the dashboard API server.
type Server struct {
	cfg        *config.Config
	store      store.Store
	tokens     *auth.TokenIssuer
	logger     *logging.Logger
	httpServer *http.Server
}

// NewServer wires the API server from its collaborators.
func NewServer(cfg *config.Config, st store.Store, logger *logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  st,
		tokens: auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins serving in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.Infof("Dashboard API listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Dashboard API server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.logger.Errorf("Error stopping dashboard API: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
