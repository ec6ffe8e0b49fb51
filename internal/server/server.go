package server

import (
	"context"
	"encoding/json"
	"errors"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"riyu/internal/dispatch"
	"riyu/internal/journal"
)

const Version = "3.1.0"

type Dispatcher interface {
	Dispatch(ctx context.Context, text string) (dispatch.Outcome, error)
}

type LogReader interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

type Server struct {
	Dispatcher Dispatcher
	Logs       LogReader    // optional
	Metrics    http.Handler // optional
	Engine     string
}

type executeRequest struct {
	Text string `json:"text"`
}

type executeResponse struct {
	Status string `json:"status"`
	Intent string `json:"intent,omitempty"`
	Phrase string `json:"phrase,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewHandler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/", s.status)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/offline/execute", s.execute)
	r.Get("/logs", s.logs)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return r
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "RIYU_OFFLINE_ONLINE",
		"version":        Version,
		"offline_engine": s.Engine,
	})
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, executeResponse{Status: "error", Error: "invalid JSON body"})
		return
	}

	out, err := s.Dispatcher.Dispatch(r.Context(), req.Text)
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.Canceled) {
			// client went away while queued
			status = 499
		}
		log.Warn("Command not dispatched", "err", err)
		writeJSON(w, status, executeResponse{Status: "rejected", Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{
		Status: "executed",
		Intent: out.Intent.String(),
		Phrase: out.Phrase,
	})
}

func (s *Server) logs(w http.ResponseWriter, r *http.Request) {
	if s.Logs == nil {
		writeJSON(w, http.StatusOK, []journal.Entry{})
		return
	}

	limit := journal.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.Logs.Recent(r.Context(), limit)
	if err != nil {
		log.Error("Failed to read command log", "err", err)
		http.Error(w, "failed to read logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// cors allows any origin, matching the browser frontend's needs.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Failed to write response", "err", err)
	}
}
