// Package httpapi exposes the tracker over HTTP: the JSON API, the
// Prometheus endpoint and the WebSocket live feed.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/config"
	"airdrop-tracker/internal/live"
	"airdrop-tracker/internal/logger"
	"airdrop-tracker/internal/observability"
	"airdrop-tracker/internal/storage"
	"airdrop-tracker/internal/tracker"
	"airdrop-tracker/internal/validation"
)

// Server wraps the tracker service with HTTP handlers.
type Server struct {
	trk *tracker.Tracker
	hub *live.Hub
	log zerolog.Logger
}

// NewServer creates a server. The hub is optional; without it the /ws
// route responds 404.
func NewServer(trk *tracker.Tracker, hub *live.Hub) (*Server, error) {
	if trk == nil {
		return nil, errors.New("http server needs a tracker")
	}
	return &Server{
		trk: trk,
		hub: hub,
		log: logger.Component("httpapi"),
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", instrument("/health", s.handleHealth))
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/api/dashboard", instrument("/api/dashboard", s.handleDashboard))
	mux.HandleFunc("/api/stats", instrument("/api/stats", s.handleStats))
	mux.HandleFunc("/api/wallets", instrument("/api/wallets", s.handleWallets))
	mux.HandleFunc("/api/chains", instrument("/api/chains", s.handleChains))
	mux.HandleFunc("/api/transactions", instrument("/api/transactions", s.handleTransactions))
	mux.HandleFunc("/api/history", instrument("/api/history", s.handleHistory))
	mux.HandleFunc("/api/snapshot", instrument("/api/snapshot", s.handleSnapshot))
	mux.HandleFunc("/api/export", instrument("/api/export", s.handleExport))
	mux.HandleFunc("/api/import", instrument("/api/import", s.handleImport))
	if s.hub != nil {
		// Not instrumented: the recorder would hide the Hijacker the
		// upgrade needs.
		mux.Handle("/ws", s.hub)
	}
	return mux
}

// ListenAndServe runs the server until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.HTTPConfig) error {
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("HTTP shutdown failed")
		}
	}()

	s.log.Info().Str("addr", cfg.Addr).Msg("HTTP server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey),
		errors.Is(err, storage.ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, storage.ErrInvalidInput),
		errors.Is(err, validation.ErrInvalidName),
		errors.Is(err, validation.ErrInvalidAddress),
		errors.Is(err, aggregate.ErrInvalidTransaction),
		errors.Is(err, aggregate.ErrInvalidPageRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Request failed")
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusRecorder captures the status code for the request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		observability.RecordHTTPRequest(route, r.Method, strconv.Itoa(rec.status), time.Since(start).Seconds())
	}
}
