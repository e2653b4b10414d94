// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/research-collector/pkg/types"
)

// --- stubs ---

type stubRunner struct {
	gotTopic     string
	gotMaxPapers int
	records      []types.PaperRecord
	message      string
}

func (r *stubRunner) Run(_ context.Context, topic string, maxPapers int) ([]types.PaperRecord, string) {
	r.gotTopic = topic
	r.gotMaxPapers = maxPapers
	return r.records, r.message
}

type stubStats struct {
	stats       types.StoreStats
	statsErr    error
	sessions    []types.Session
	sessionsErr error
	gotLimit    int
}

func (s *stubStats) Stats(context.Context) (types.StoreStats, error) {
	return s.stats, s.statsErr
}

func (s *stubStats) RecentSessions(_ context.Context, limit int) ([]types.Session, error) {
	s.gotLimit = limit
	return s.sessions, s.sessionsErr
}

func newTestServer(runner *stubRunner, stats *stubStats) *Server {
	return New(runner, stats, zap.NewNop(), 10)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

// --- tests ---

func TestHealth(t *testing.T) {
	s := newTestServer(&stubRunner{}, &stubStats{})
	rr := doRequest(t, s, http.MethodGet, "/health", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestCollect(t *testing.T) {
	records := []types.PaperRecord{{
		ID:              "2301.07041v2",
		Title:           "Quantum Error Correction at Scale",
		PrimaryCategory: "quant-ph",
		QualityScore:    100,
		PublishedDate:   time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC),
	}}
	runner := &stubRunner{records: records, message: "Successfully stored 1 research papers in database"}
	s := newTestServer(runner, &stubStats{})

	rr := doRequest(t, s, http.MethodPost, "/api/collect",
		`{"topic": "quantum computing", "max_papers": 5}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if runner.gotTopic != "quantum computing" || runner.gotMaxPapers != 5 {
		t.Errorf("runner called with topic=%q max=%d", runner.gotTopic, runner.gotMaxPapers)
	}

	var resp collectResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Message, "Successfully stored 1") {
		t.Errorf("Message = %q", resp.Message)
	}
	if len(resp.Papers) != 1 || resp.Papers[0].ID != "2301.07041v2" {
		t.Errorf("Papers = %+v", resp.Papers)
	}
	if len(resp.CategoryChart) != 1 || resp.CategoryChart[0].Category != "quant-ph" {
		t.Errorf("CategoryChart = %+v", resp.CategoryChart)
	}
	if len(resp.ScoreChart) != 10 {
		t.Errorf("ScoreChart has %d bins, want 10", len(resp.ScoreChart))
	}
	if !strings.Contains(resp.Report, "Total Papers Collected: 1") {
		t.Errorf("Report = %q", resp.Report)
	}
}

func TestCollectDefaultsMaxPapers(t *testing.T) {
	runner := &stubRunner{message: "No research data found for the given topic"}
	s := newTestServer(runner, &stubStats{})

	rr := doRequest(t, s, http.MethodPost, "/api/collect", `{"topic": "robotics"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if runner.gotMaxPapers != 10 {
		t.Errorf("maxPapers = %d, want server default 10", runner.gotMaxPapers)
	}
}

func TestCollectValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{not json`},
		{"missing topic", `{"max_papers": 5}`},
		{"empty topic", `{"topic": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubRunner{}, &stubStats{})
			rr := doRequest(t, s, http.MethodPost, "/api/collect", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["error"] == "" {
				t.Errorf("missing error field: %v", body)
			}
		})
	}
}

func TestCollectMethodNotAllowed(t *testing.T) {
	s := newTestServer(&stubRunner{}, &stubStats{})
	rr := doRequest(t, s, http.MethodGet, "/api/collect", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestStats(t *testing.T) {
	stats := &stubStats{stats: types.StoreStats{
		TotalPapers:      42,
		PapersBySource:   map[string]int{"arxiv": 42},
		PapersByCategory: map[string]int{"cs.LG": 30, "quant-ph": 12},
	}}
	s := newTestServer(&stubRunner{}, stats)

	rr := doRequest(t, s, http.MethodGet, "/api/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var got types.StoreStats
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.TotalPapers != 42 || got.PapersBySource["arxiv"] != 42 {
		t.Errorf("stats = %+v", got)
	}
}

func TestStatsError(t *testing.T) {
	s := newTestServer(&stubRunner{}, &stubStats{statsErr: errors.New("connection refused")})
	rr := doRequest(t, s, http.MethodGet, "/api/stats", "")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestSessions(t *testing.T) {
	stats := &stubStats{sessions: []types.Session{
		{SessionID: "session_20230501_120000", ResearchTopic: "quantum computing", PaperCount: 5},
	}}
	s := newTestServer(&stubRunner{}, stats)

	rr := doRequest(t, s, http.MethodGet, "/api/sessions?limit=3", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if stats.gotLimit != 3 {
		t.Errorf("limit = %d, want 3", stats.gotLimit)
	}

	var got []types.Session
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SessionID != "session_20230501_120000" {
		t.Errorf("sessions = %+v", got)
	}
}

func TestSessionsDefaultLimit(t *testing.T) {
	stats := &stubStats{}
	s := newTestServer(&stubRunner{}, stats)

	rr := doRequest(t, s, http.MethodGet, "/api/sessions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if stats.gotLimit != 5 {
		t.Errorf("limit = %d, want default 5", stats.gotLimit)
	}
	// nil sessions serialize as an empty array, not null.
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rr.Body.String())
	}
}

func TestSessionsBadLimit(t *testing.T) {
	s := newTestServer(&stubRunner{}, &stubStats{})
	for _, limit := range []string{"abc", "-1", "0"} {
		rr := doRequest(t, s, http.MethodGet, "/api/sessions?limit="+limit, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rr.Code)
		}
	}
}
