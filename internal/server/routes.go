package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/driftline/collective/internal/memory"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAddEcho(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content  string                      `json:"content"`
		AuthorID string                      `json:"author_id"`
		Type     string                      `json:"type"`
		Weight   float64                     `json:"weight"`
		Metadata map[string]memory.MetaValue `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.AuthorID == "" {
		http.Error(w, `{"error":"author_id required"}`, http.StatusBadRequest)
		return
	}

	typ := memory.TypeMemory
	if req.Type != "" {
		var err error
		typ, err = memory.ParseEchoType(req.Type)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
	}

	echo := s.svc.Store.Add(req.Content, req.AuthorID, typ, req.Weight, req.Metadata)
	writeJSON(w, http.StatusCreated, echo)
}

func (s *Server) handleRetrieveEcho(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "echoID")

	echo, ok := s.svc.Store.Retrieve(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "echo not found"})
		return
	}
	writeJSON(w, http.StatusOK, echo)
}

func (s *Server) handleRemoveEcho(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "echoID")

	if !s.svc.Store.Remove(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "echo not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := memory.SearchOpts{
		Query:    q.Get("q"),
		AuthorID: q.Get("author"),
	}

	if v := q.Get("type"); v != "" {
		typ, err := memory.ParseEchoType(v)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		opts.Type = typ
	}
	if v := q.Get("tier"); v != "" {
		tier, err := memory.ParseTier(v)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		opts.Tier = tier
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}

	results := s.svc.Store.Search(opts)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(results),
		"echoes": results,
	})
}

func (s *Server) handleWisdom(w http.ResponseWriter, r *http.Request) {
	count := 5
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}

	wisdom := s.svc.Store.CrystallizeWisdom(count)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(wisdom),
		"echoes": wisdom,
	})
}

// handleSnapshot triggers a synchronous snapshot. Persistence failure is
// not an HTTP error: the record is still built and returned, with
// persisted=false flagging the miss.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, persisted := s.svc.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"persisted": persisted,
		"snapshot":  snap,
	})
}

func (s *Server) handleRecentSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshot persistence not configured"})
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.db.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(records),
		"snapshots": records,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.svc.Store.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
