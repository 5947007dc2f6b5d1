// SPDX-License-Identifier: AGPL-3.0-only
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/seshasairaw/smarthub-operations/internal/config"
	"github.com/seshasairaw/smarthub-operations/internal/logging"
)

// ChatRequest is the inbound chat payload from the frontend.
type ChatRequest struct {
	Message string         `json:"message"`
	History []HistoryEntry `json:"history"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Server is the assistant HTTP server.
type Server struct {
	cfg        *config.Config
	orch       *Orchestrator
	logger     *logging.Logger
	httpServer *http.Server
}

// NewServer wires the assistant server from its collaborators.
func NewServer(cfg *config.Config, orch *Orchestrator, logger *logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		orch:   orch,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Bot.Address, cfg.Bot.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.Server.CORSOrigin))

	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)

	return r
}

// Start begins serving in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.Infof("Assistant listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Assistant server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.logger.Errorf("Error stopping assistant: %v", err)
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "botbrain is running"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "message is required"})
		return
	}

	// A per-conversation ID keeps log lines for one chat traceable.
	logger := s.logger.WithField("conversation_id", uuid.NewString())
	logger.Infof("Chat request with %d history entries", len(req.History))

	reply := s.orch.Chat(r.Context(), req.Message, req.History)
	s.writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// corsMiddleware allows the configured frontend origin to call the assistant
// from a browser.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
