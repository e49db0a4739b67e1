// Package server exposes the collective-memory store over HTTP. This is
// the event-source surface: chat layers, bots, and metrics consumers
// speak JSON to these routes and never touch the store directly.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/driftline/collective/internal/memory"
	"github.com/driftline/collective/internal/persist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the collective HTTP API server.
type Server struct {
	svc     *memory.Service
	db      *persist.DB // nil when snapshots are not persisted
	router  chi.Router
	version string
	started time.Time
}

// New creates a Server over the given memory service. db may be nil.
func New(svc *memory.Service, db *persist.DB, version string) *Server {
	s := &Server{
		svc:     svc,
		db:      db,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/echoes", s.handleAddEcho)
		r.Get("/echoes/{echoID}", s.handleRetrieveEcho)
		r.Delete("/echoes/{echoID}", s.handleRemoveEcho)

		r.Get("/search", s.handleSearch)
		r.Get("/wisdom", s.handleWisdom)

		r.Post("/snapshot", s.handleSnapshot)
		r.Get("/snapshots/recent", s.handleRecentSnapshots)

		r.Post("/clear", s.handleClear)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.svc.Store.Health()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"version":          s.version,
		"uptime":           time.Since(s.started).Seconds(),
		"total_echoes":     health.TotalEchoes,
		"empty_echoes":     health.EmptyEchoes,
		"empty_percentage": health.EmptyPct,
		"tiers":            health.Tiers,
		"unique_authors":   health.UniqueAuthors,
		"health_status":    health.Health,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
