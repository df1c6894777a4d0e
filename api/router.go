// Package api serves the qrtool web UI: a single-page form with a live
// preview pane, plus JSON endpoints for generation and history.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/D4v4N/qrtool/config"
	"github.com/D4v4N/qrtool/qrgen"
	"github.com/D4v4N/qrtool/store"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Store     *store.HistoryStore // nil when history is disabled
	Defaults  config.Defaults
	OutputDir string
	Log       *slog.Logger
	Version   string
}

// NewRouter returns a fully configured chi router with all routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(requestLogger(s.Log))

	// Web UI
	r.Get("/", s.handleIndex)
	r.Get("/status", s.handleStatus)

	// Generation
	r.Get("/api/preview", s.handlePreview)
	r.Post("/api/generate", s.handleGenerate)

	// History
	r.Get("/api/history", s.handleHistory)

	return r
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the generation error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, qrgen.ErrInvalidInput), errors.Is(err, qrgen.ErrUnsupportedOption):
		return http.StatusBadRequest
	case errors.Is(err, qrgen.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// --- middleware --------------------------------------------------------------

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}
