// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists paper records and session summaries. Two
// backends implement the same contract: MongoDB (the hosted document
// store) and SQLite (a local file for offline use). Records are keyed by
// paper ID with upsert semantics, so re-ingesting a paper overwrites the
// stored copy.
package store

import (
	"context"
	"fmt"

	"github.com/pdiddy/research-collector/pkg/types"
)

// Collection names shared by both backends. The topics collection is
// reserved in the persisted layout but unused in the current scope.
const (
	papersCollection   = "research_papers"
	sessionsCollection = "research_sessions"
	topicsCollection   = "research_topics"
)

// Store is the full persistence contract. The pipeline consumes the
// write-side subset; reporting commands use ListPapers.
type Store interface {
	// StoreBatch tags each record with topic, sessionID, and the current
	// time, writes the batch keyed by record ID, and returns the number
	// of records written.
	StoreBatch(ctx context.Context, records []types.PaperRecord, topic, sessionID string) (int, error)

	// StoreSession writes one session summary record, keyed by session ID.
	StoreSession(ctx context.Context, session types.Session) error

	// Stats summarizes the stored papers by source and primary category.
	Stats(ctx context.Context) (types.StoreStats, error)

	// RecentSessions returns up to limit sessions, newest first.
	RecentSessions(ctx context.Context, limit int) ([]types.Session, error)

	// ListPapers returns stored records, optionally filtered by research
	// topic, up to limit.
	ListPapers(ctx context.Context, topic string, limit int) ([]types.PaperRecord, error)

	// Close releases the backend connection.
	Close() error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg types.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case types.DriverMongo:
		return OpenMongo(ctx, cfg)
	case types.DriverSQLite, "":
		return OpenSQLite(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
