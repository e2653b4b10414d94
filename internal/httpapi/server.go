// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi exposes the collection pipeline and store statistics
// over a JSON HTTP API for the interactive front end. The front end is a
// pure consumer: it posts a topic and renders the returned message,
// table, chart inputs, and report text.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/pdiddy/research-collector/internal/report"
	"github.com/pdiddy/research-collector/pkg/types"
)

// Runner executes one collection run. Satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, topic string, maxPapers int) ([]types.PaperRecord, string)
}

// StatsReader serves the read-side store queries.
type StatsReader interface {
	Stats(ctx context.Context) (types.StoreStats, error)
	RecentSessions(ctx context.Context, limit int) ([]types.Session, error)
}

// Server handles the front-end API routes.
type Server struct {
	runner    Runner
	store     StatsReader
	log       *zap.Logger
	maxPapers int
}

// New builds a Server. maxPapers bounds collect requests that omit a
// result count.
func New(runner Runner, store StatsReader, log *zap.Logger, maxPapers int) *Server {
	if maxPapers <= 0 {
		maxPapers = 10
	}
	return &Server{runner: runner, store: store, log: log, maxPapers: maxPapers}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/collect", s.handleCollect)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// collectRequest is the front end's run trigger.
type collectRequest struct {
	Topic     string `json:"topic"`
	MaxPapers int    `json:"max_papers"`
}

// collectResponse carries everything the front end displays for one run:
// the outcome message, the record table, both chart inputs, and the
// report text.
type collectResponse struct {
	Message       string                 `json:"message"`
	Papers        []types.PaperRecord    `json:"papers"`
	CategoryChart []report.CategoryCount `json:"category_chart"`
	ScoreChart    []report.HistogramBin  `json:"score_chart"`
	Report        string                 `json:"report"`
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.MaxPapers <= 0 {
		req.MaxPapers = s.maxPapers
	}

	records, message := s.runner.Run(r.Context(), req.Topic, req.MaxPapers)
	s.log.Info("collection run finished",
		zap.String("topic", req.Topic),
		zap.Int("papers", len(records)),
		zap.String("message", message),
	)

	var reportText bytes.Buffer
	report.WriteReport(&reportText, records)

	writeJSON(w, http.StatusOK, collectResponse{
		Message:       message,
		Papers:        records,
		CategoryChart: report.CategoryCounts(records, 8),
		ScoreChart:    report.ScoreHistogram(records),
		Report:        reportText.String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.log.Error("stats read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sessions, err := s.store.RecentSessions(r.Context(), limit)
	if err != nil {
		s.log.Error("sessions read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "sessions unavailable")
		return
	}
	if sessions == nil {
		sessions = []types.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
