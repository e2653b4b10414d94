// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences retrieval, normalization, and persistence
// for one collection run and reports the outcome as a human-readable
// message.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/research-collector/internal/normalize"
	"github.com/pdiddy/research-collector/pkg/types"
)

// Retriever searches an external academic API for raw results. A failure
// is equivalent to an empty result list from the orchestrator's point of
// view.
type Retriever interface {
	Name() string
	Search(ctx context.Context, topic string, limit int) ([]types.RawPaper, error)
}

// Store persists paper records and session summaries. Records are keyed
// by ID with upsert semantics.
type Store interface {
	// StoreBatch writes the records tagged with topic and session in one
	// logical batch and returns the number stored.
	StoreBatch(ctx context.Context, records []types.PaperRecord, topic, sessionID string) (int, error)

	// StoreSession writes one session summary record.
	StoreSession(ctx context.Context, session types.Session) error

	// Stats summarizes the store contents.
	Stats(ctx context.Context) (types.StoreStats, error)

	// RecentSessions returns the most recent sessions, newest first.
	RecentSessions(ctx context.Context, limit int) ([]types.Session, error)
}

// NormalizeFunc turns one raw result into a record. An error drops that
// record from the run without aborting the batch.
type NormalizeFunc func(types.RawPaper) (types.PaperRecord, error)

// Pipeline runs the collect-normalize-store sequence. At most one run is
// in flight at a time: a mutex serializes overlapping calls so no two
// runs race on external state.
type Pipeline struct {
	retriever Retriever
	store     Store
	normalize NormalizeFunc

	// now is the run clock; tests substitute a fixed one.
	now func() time.Time

	mu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNormalizer replaces the default (total) normalizer.
func WithNormalizer(fn NormalizeFunc) Option {
	return func(p *Pipeline) { p.normalize = fn }
}

// WithClock replaces the wall clock used for session IDs.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New builds a Pipeline around the given collaborators.
func New(retriever Retriever, store Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		retriever: retriever,
		store:     store,
		normalize: func(raw types.RawPaper) (types.PaperRecord, error) {
			return normalize.Record(raw), nil
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one collection run for topic, bounded to maxPapers
// results. It never returns an error: every failure mode degrades to a
// documented (records, message) outcome instead.
//
//   - Empty or failed retrieval: (nil, not-found message), terminal.
//   - A record failing normalization is dropped; the rest proceed.
//   - Persistence failure still returns the cleaned records with a
//     message flagging the storage failure.
//   - On full success the message carries the store's current total paper
//     count; a failed stats read is swallowed and simply omitted.
//
// No retries anywhere: each external call succeeds for this run or the
// run degrades.
func (p *Pipeline) Run(ctx context.Context, topic string, maxPapers int) ([]types.PaperRecord, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := p.retriever.Search(ctx, topic, maxPapers)
	if err != nil || len(raw) == 0 {
		return nil, "No research data found for the given topic"
	}

	records := make([]types.PaperRecord, 0, len(raw))
	for _, r := range raw {
		rec, err := p.normalize(r)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, "No research data found for the given topic"
	}

	now := p.now()
	sessionID := "session_" + now.Format("20060102_150405")

	stored, err := p.store.StoreBatch(ctx, records, topic, sessionID)
	if err != nil {
		return records, fmt.Sprintf("Data collected but database storage failed: %v", err)
	}

	session := types.Session{
		SessionID:     sessionID,
		ResearchTopic: topic,
		PaperCount:    stored,
		CreatedAt:     now,
		Status:        types.SessionCompleted,
	}
	if err := p.store.StoreSession(ctx, session); err != nil {
		return records, fmt.Sprintf("Data collected but database storage failed: %v", err)
	}

	msg := fmt.Sprintf("Successfully stored %d research papers in database", stored)
	if stats, err := p.store.Stats(ctx); err == nil {
		msg += fmt.Sprintf(" | Database now has %d total papers", stats.TotalPapers)
	}
	return records, msg
}
