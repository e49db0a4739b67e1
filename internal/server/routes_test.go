package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/driftline/collective/internal/memory"
	"github.com/driftline/collective/internal/persist"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := memory.New(memory.Options{})
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	db, err := persist.OpenMemory()
	if err != nil {
		t.Fatalf("persist.OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return New(memory.NewService(store, db), db, "test")
}

func addEcho(t *testing.T, srv *Server, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/echoes", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func TestAddEcho(t *testing.T) {
	srv := testServer(t)

	resp := addEcho(t, srv, `{"content":"the moon guides us","author_id":"alice","type":"wisdom","metadata":{"channel":"general"}}`)
	if resp["id"] == "" || resp["id"] == nil {
		t.Error("missing id in response")
	}
	if resp["type"] != "wisdom" {
		t.Errorf("type = %v, want wisdom", resp["type"])
	}
	if resp["weight"] != 1.0 {
		t.Errorf("weight = %v, want default 1.0", resp["weight"])
	}
}

func TestAddEchoValidation(t *testing.T) {
	srv := testServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing author", `{"content":"hi"}`},
		{"bad type", `{"content":"hi","author_id":"alice","type":"nostalgia"}`},
		{"bad json", `{{`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/api/echoes", strings.NewReader(tc.body))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, http.StatusBadRequest)
		}
	}
}

func TestRetrieveEchoBumpsResonance(t *testing.T) {
	srv := testServer(t)
	resp := addEcho(t, srv, `{"content":"hello","author_id":"alice"}`)
	id := resp["id"].(string)

	req := httptest.NewRequest("GET", "/api/echoes/"+id, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var echo map[string]any
	json.Unmarshal(w.Body.Bytes(), &echo)
	if echo["resonance"] != 1.0 {
		t.Errorf("resonance = %v, want 1 after one retrieval", echo["resonance"])
	}
}

func TestRetrieveEchoNotFound(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/echoes/01JUNKJUNKJUNKJUNKJUNKJUNK", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestRemoveEcho(t *testing.T) {
	srv := testServer(t)
	resp := addEcho(t, srv, `{"content":"delete me","author_id":"alice"}`)
	id := resp["id"].(string)

	req := httptest.NewRequest("DELETE", "/api/echoes/"+id, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	req = httptest.NewRequest("DELETE", "/api/echoes/"+id, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestSearch(t *testing.T) {
	srv := testServer(t)
	addEcho(t, srv, `{"content":"The moon guides us","author_id":"alice","type":"wisdom"}`)
	addEcho(t, srv, `{"content":"Stars shine","author_id":"bob","type":"wisdom"}`)

	req := httptest.NewRequest("GET", "/api/search?q=moon", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Count  int           `json:"count"`
		Echoes []memory.Echo `json:"echoes"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Echoes[0].Content != "The moon guides us" {
		t.Errorf("content = %q", resp.Echoes[0].Content)
	}

	req = httptest.NewRequest("GET", "/api/search?tier=purgatory", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad tier status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestWisdom(t *testing.T) {
	srv := testServer(t)
	addEcho(t, srv, `{"content":"all things pass","author_id":"alice","type":"revelation","weight":3}`)
	addEcho(t, srv, `{"content":"idle chatter","author_id":"bob","type":"interaction","weight":9}`)

	req := httptest.NewRequest("GET", "/api/wisdom", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var resp struct {
		Count  int           `json:"count"`
		Echoes []memory.Echo `json:"echoes"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1 (interaction excluded)", resp.Count)
	}
	if resp.Echoes[0].Type != memory.TypeRevelation {
		t.Errorf("type = %s", resp.Echoes[0].Type)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["health_status"] != "healthy" {
		t.Errorf("health_status = %v, want healthy on empty store", resp["health_status"])
	}
	if resp["empty_percentage"] != 0.0 {
		t.Errorf("empty_percentage = %v, want 0", resp["empty_percentage"])
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	srv := testServer(t)
	addEcho(t, srv, `{"content":"frozen in time","author_id":"alice"}`)

	req := httptest.NewRequest("POST", "/api/snapshot", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Persisted bool             `json:"persisted"`
		Snapshot  *memory.Snapshot `json:"snapshot"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Persisted {
		t.Error("snapshot should persist to the sqlite sink")
	}
	if resp.Snapshot.TotalEchoes != 1 {
		t.Errorf("total = %d, want 1", resp.Snapshot.TotalEchoes)
	}

	req = httptest.NewRequest("GET", "/api/snapshots/recent", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var recent struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &recent)
	if recent.Count != 1 {
		t.Errorf("recent count = %d, want 1", recent.Count)
	}
}

func TestClearEndpoint(t *testing.T) {
	srv := testServer(t)
	addEcho(t, srv, `{"content":"soon gone","author_id":"alice"}`)

	req := httptest.NewRequest("POST", "/api/clear", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/health", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["total_echoes"] != 0.0 {
		t.Errorf("total_echoes = %v after clear, want 0", resp["total_echoes"])
	}
}
