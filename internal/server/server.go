// Package server is the HTTP boundary: it translates requests into
// governor calls and serializes decisions. The engine's fail-closed
// contract holds here too — a review that faults still answers with a
// blocking decision document, not an error page.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/arbiterhq/arbiter/internal/governor"
	"github.com/arbiterhq/arbiter/internal/model"
)

// Config holds HTTP server configuration.
type Config struct {
	Port        int
	ProfilePath string
}

// Server exposes a Governor over HTTP.
type Server struct {
	gov    *governor.Governor
	cfg    Config
	logger zerolog.Logger
	srv    *http.Server
	reseed func() error // invoked by the reloader on profile change
}

// New wires a Governor into an HTTP server. reseed may be nil when hot
// reload is not configured.
func New(gov *governor.Governor, cfg Config, logger zerolog.Logger, reseed func() error) *Server {
	s := &Server{
		gov:    gov,
		cfg:    cfg,
		logger: logger.With().Str("component", "http").Logger(),
		reseed: reseed,
	}

	r := mux.NewRouter()
	r.Use(s.withRequestID, s.withLogging)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	r.HandleFunc("/v1/review", s.handleReview).Methods(http.MethodPost)
	r.HandleFunc("/v1/activate", s.handleActivate).Methods(http.MethodPost)
	r.HandleFunc("/v1/metrics", s.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/v1/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/v1/weights", s.handleWeights).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Serve listens on the configured port. Blocks until Shutdown.
func (s *Server) Serve() error {
	s.logger.Info().Int("port", s.cfg.Port).Msg("listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http serve: %w", err)
	}
	return nil
}

// ServeOn serves on the given listener. For testing.
func (s *Server) ServeOn(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ReloadProfile reseeds the governor from the profile file. Called by
// the hot-reload watcher.
func (s *Server) ReloadProfile() error {
	if s.reseed == nil {
		return nil
	}
	return s.reseed()
}

type evaluateRequest struct {
	ActionType string         `json:"action_type"`
	Actor      string         `json:"actor"`
	ActionData map[string]any `json:"action_data"`
	Context    map[string]any `json:"context"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.ActionType == "" || req.Actor == "" {
		writeError(w, http.StatusBadRequest, "action_type and actor are required")
		return
	}

	var ctx *model.Context
	if req.Context != nil {
		c := model.ContextFromMap(req.ActionType, req.Context)
		if c.Actor == "unknown" {
			c.Actor = req.Actor
		}
		ctx = &c
	}

	decision := s.gov.Evaluate(req.ActionType, req.Actor, req.ActionData, ctx)
	writeJSON(w, http.StatusOK, decision.ToMap())
}

type reviewRequest struct {
	ActionType string         `json:"action_type"`
	Context    map[string]any `json:"context"`
	Metadata   map[string]any `json:"metadata"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.ActionType == "" {
		writeError(w, http.StatusBadRequest, "action_type is required")
		return
	}

	// Review never errors: internal faults come back as a fail-closed
	// blocking decision.
	decision := s.gov.Review(req.ActionType, req.Context, req.Metadata)
	writeJSON(w, http.StatusOK, decision.ToMap())
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.gov.Activate()
	writeJSON(w, http.StatusOK, map[string]any{"governance_active": true})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gov.Metrics())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	decisions := s.gov.History(limit)
	out := make([]map[string]any, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, d.ToMap())
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": out, "count": len(out)})
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gov.Weights())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gov.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"governance_active": s.gov.Active(),
		"time":              time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
