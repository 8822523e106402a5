// Package api exposes the slot engine over HTTP: one scrape endpoint,
// a health probe, and the CORS/auth glue browsers and callers expect.
// The engine itself knows nothing about transport.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"chilislots/pkg/config"
	"chilislots/pkg/engine"
	"chilislots/pkg/log"
)

const serviceName = "chili-slots-scraper"

// Runner runs one scrape request; satisfied by *engine.Engine and by
// fakes in tests.
type Runner interface {
	Run(ctx context.Context, request engine.ScrapeRequest) engine.ScrapeOutcome
}

type Server struct {
	cfg    config.Config
	runner Runner
	mux    *http.ServeMux
}

func NewServer(cfg config.Config, runner Runner) *Server {
	s := &Server{cfg: cfg, runner: runner, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/slots", s.handleSlots)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Authentication required. Please provide a valid API token.")
		return
	}

	var request engine.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := request.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := s.runner.Run(r.Context(), request)
	if outcome.Days == nil {
		outcome.Days = engine.NewAggregate()
	}
	flattened := engine.Flatten(outcome.Days, s.cfg.Scrape.TimezoneLabel)

	note := "No available booking slots found in the calendar"
	if outcome.Days.Len() > 0 {
		note = noteFor(outcome.Days.Len(), len(flattened))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"total_slots": len(flattened),
			"total_days":  outcome.Days.Len(),
			"completed":   outcome.Completed,
			"note":        note,
			"days":        outcome.Days.ByDate(),
			"slots":       flattened,
		},
	})
}

// authorized checks the bearer key against the configured list. An
// empty list disables auth, which is only sensible for local runs.
func (s *Server) authorized(r *http.Request) bool {
	if len(s.cfg.Server.APIKeys) == 0 {
		return true
	}
	key := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	for _, known := range s.cfg.Server.APIKeys {
		if key != "" && key == known {
			return true
		}
	}
	return false
}

func noteFor(dayCount, slotCount int) string {
	return fmt.Sprintf("Found %d days with %d total booking slots", dayCount, slotCount)
}

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.L().Warn("response_write_failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
