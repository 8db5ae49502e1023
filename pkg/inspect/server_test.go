package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aegisworld/warden/pkg/audit"
)

// stubSource serves canned audit data and records the limit it was asked
// for.
type stubSource struct {
	entries   []audit.Entry
	summary   map[string]int
	lastLimit int
}

func (s *stubSource) RecentEntries(limit int) []audit.Entry {
	s.lastLimit = limit
	if limit < len(s.entries) {
		return s.entries[len(s.entries)-limit:]
	}
	return s.entries
}

func (s *stubSource) AuditSummary() map[string]int { return s.summary }

func newTestServer(t *testing.T, source *stubSource) *httptest.Server {
	t.Helper()
	srv := NewServer(source, nil)
	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleChanges(t *testing.T) {
	source := &stubSource{
		entries: []audit.Entry{
			{Timestamp: "2026-01-02T15:04:05Z", Action: "proposed", ChangeID: "c-1", Summary: "first"},
			{Timestamp: "2026-01-02T15:04:06Z", Action: "applied", ChangeID: "c-1", Summary: "first", Outcome: "success"},
		},
	}
	ts := newTestServer(t, source)

	resp := get(t, ts.URL+"/changes")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Entries []audit.Entry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(body.Entries))
	}
	if body.Entries[1].Outcome != "success" {
		t.Errorf("entries[1].Outcome = %q", body.Entries[1].Outcome)
	}
	if source.lastLimit != defaultEntryLimit {
		t.Errorf("default limit = %d, want %d", source.lastLimit, defaultEntryLimit)
	}
}

func TestHandleChanges_LimitParam(t *testing.T) {
	source := &stubSource{
		entries: []audit.Entry{
			{Action: "proposed", ChangeID: "c-1"},
			{Action: "proposed", ChangeID: "c-2"},
			{Action: "proposed", ChangeID: "c-3"},
		},
	}
	ts := newTestServer(t, source)

	resp := get(t, ts.URL+"/changes?limit=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Entries []audit.Entry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Entries) != 1 || body.Entries[0].ChangeID != "c-3" {
		t.Errorf("entries = %+v, want only c-3", body.Entries)
	}
}

func TestHandleChanges_InvalidLimit(t *testing.T) {
	ts := newTestServer(t, &stubSource{})

	for _, limit := range []string{"abc", "-1"} {
		resp := get(t, ts.URL+"/changes?limit="+limit)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%q status = %d, want 400", limit, resp.StatusCode)
		}
	}
}

func TestHandleChanges_EmptyLogReturnsEmptyArray(t *testing.T) {
	ts := newTestServer(t, &stubSource{})

	resp := get(t, ts.URL+"/changes")
	var body struct {
		Entries []audit.Entry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Entries == nil {
		t.Error("entries serialized as null, want []")
	}
}

func TestHandleStats(t *testing.T) {
	ts := newTestServer(t, &stubSource{
		summary: map[string]int{"proposed": 3, "applied": 2, "reverted": 1},
	})

	resp := get(t, ts.URL+"/stats")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Summary map[string]int `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Summary["proposed"] != 3 || body.Summary["reverted"] != 1 {
		t.Errorf("summary = %v", body.Summary)
	}
}

func TestHandleHealthz(t *testing.T) {
	ts := newTestServer(t, &stubSource{})

	resp := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &stubSource{})

	resp, err := http.Post(ts.URL+"/changes", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /changes status = %d, want 405", resp.StatusCode)
	}
}
