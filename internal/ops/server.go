// Package ops serves the operational HTTP surface: a liveness probe
// that pings the backing store and a small status document. It is not
// part of the chat-facing bot.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rzclan/warbot/internal/dependencies/clock"
	"github.com/rzclan/warbot/internal/services/session"
	"github.com/rzclan/warbot/internal/storage"
)

const shutdownTimeout = 30 * time.Second

// Server wraps the ops HTTP server with graceful shutdown support
type Server struct {
	server    *http.Server
	logger    *slog.Logger
	storage   storage.Storage
	sessions  *session.Store
	clock     clock.Clock
	startedAt time.Time
}

func NewServer(addr string, logger *slog.Logger, store storage.Storage, sessions *session.Store, clk clock.Clock) *Server {
	s := &Server{
		logger:    logger,
		storage:   store,
		sessions:  sessions,
		clock:     clk,
		startedAt: clk.Now(),
	}

	router := mux.NewRouter()
	router.Use(recovery(logger))
	router.Use(logging(logger))
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting ops server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ops server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down ops server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ops shutdown error: %w", err)
	}
	return nil
}

// handleHealth reports liveness, checking the backing store
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		http.Error(w, "storage unreachable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

type statusResponse struct {
	Status         string `json:"status"`
	Players        int    `json:"players"`
	ActiveSessions int    `json:"active_sessions"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	players, err := s.storage.ListPlayers(r.Context())
	if err != nil {
		http.Error(w, "storage unreachable", http.StatusServiceUnavailable)
		return
	}
	resp := statusResponse{
		Status:         "ok",
		Players:        len(players),
		ActiveSessions: s.sessions.Active(),
		UptimeSeconds:  int64(s.clock.Now().Sub(s.startedAt).Seconds()),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("status encode failed", "error", err)
	}
}
