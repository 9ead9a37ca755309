// Package api exposes the ledger and the scheduler over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bryan-cox/studyledger/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware. now
// supplies the default scheduling date.
func NewRouter(s store.Store, now func() time.Time, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(Logger(logger))
	r.Use(middleware.Recoverer)

	h := &Handler{store: s, now: now}

	r.Get("/health", h.Health)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.AddTask)
		r.Delete("/{id}", h.DeleteTask)
	})

	r.Get("/preferences", h.GetPreferences)
	r.Put("/preferences", h.PutPreferences)

	r.Get("/schedule", h.Schedule)
	r.Get("/stats", h.Stats)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
