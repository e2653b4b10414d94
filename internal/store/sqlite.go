// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-collector/pkg/types"
)

// SQLiteStore persists records in a local SQLite file. List-valued fields
// are stored as JSON text columns. Unlike the Mongo backend, StoreBatch
// runs in a transaction and is all-or-nothing.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database file and its schema.
func OpenSQLite(cfg types.StoreConfig) (*SQLiteStore, error) {
	path := cfg.Path
	if path == "" {
		path = "research.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + papersCollection + ` (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			published_date TEXT,
			url TEXT,
			source TEXT,
			categories TEXT,
			primary_category TEXT,
			keywords TEXT,
			abstract_word_count INTEGER,
			normalized_at TEXT,
			quality_score INTEGER,
			research_topic TEXT,
			session_id TEXT,
			stored_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ` + sessionsCollection + ` (
			session_id TEXT PRIMARY KEY,
			research_topic TEXT,
			paper_count INTEGER,
			created_at TEXT,
			status TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_topic ON ` + papersCollection + `(research_topic)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_source ON ` + papersCollection + `(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StoreBatch upserts the records in one transaction keyed by paper ID.
func (s *SQLiteStore) StoreBatch(ctx context.Context, records []types.PaperRecord, topic, sessionID string) (int, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("no paper records to store")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+papersCollection+` (
			id, title, authors, abstract, published_date, url, source,
			categories, primary_category, keywords, abstract_word_count,
			normalized_at, quality_score, research_topic, session_id, stored_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors,
			abstract=excluded.abstract, published_date=excluded.published_date,
			url=excluded.url, source=excluded.source,
			categories=excluded.categories, primary_category=excluded.primary_category,
			keywords=excluded.keywords, abstract_word_count=excluded.abstract_word_count,
			normalized_at=excluded.normalized_at, quality_score=excluded.quality_score,
			research_topic=excluded.research_topic, session_id=excluded.session_id,
			stored_at=excluded.stored_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := timeNow()
	for _, rec := range records {
		authorsJSON, _ := json.Marshal(rec.Authors)
		categoriesJSON, _ := json.Marshal(rec.Categories)
		keywordsJSON, _ := json.Marshal(rec.Keywords)

		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.Title, string(authorsJSON), rec.Abstract,
			rec.PublishedDate.Format(time.RFC3339), rec.SourceURL, rec.Source,
			string(categoriesJSON), rec.PrimaryCategory, string(keywordsJSON),
			rec.AbstractWordCount, rec.NormalizedAt.Format(time.RFC3339),
			rec.QualityScore, topic, sessionID, now.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("upserting paper %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return len(records), nil
}

// StoreSession upserts one session summary row.
func (s *SQLiteStore) StoreSession(ctx context.Context, session types.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+sessionsCollection+` (session_id, research_topic, paper_count, created_at, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			research_topic=excluded.research_topic, paper_count=excluded.paper_count,
			created_at=excluded.created_at, status=excluded.status`,
		session.SessionID, session.ResearchTopic, session.PaperCount,
		session.CreatedAt.Format(time.RFC3339), string(session.Status),
	)
	if err != nil {
		return fmt.Errorf("storing session %s: %w", session.SessionID, err)
	}
	return nil
}

// Stats counts stored papers and groups them by source and primary
// category.
func (s *SQLiteStore) Stats(ctx context.Context) (types.StoreStats, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM `+papersCollection,
	).Scan(&total); err != nil {
		return types.StoreStats{}, fmt.Errorf("counting papers: %w", err)
	}

	bySource, err := s.groupCount(ctx, "source")
	if err != nil {
		return types.StoreStats{}, err
	}
	byCategory, err := s.groupCount(ctx, "primary_category")
	if err != nil {
		return types.StoreStats{}, err
	}

	return types.StoreStats{
		TotalPapers:      total,
		PapersBySource:   bySource,
		PapersByCategory: byCategory,
	}, nil
}

func (s *SQLiteStore) groupCount(ctx context.Context, column string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, count(*) FROM `+papersCollection+` GROUP BY `+column)
	if err != nil {
		return nil, fmt.Errorf("grouping papers by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		if key == "" {
			key = "unknown"
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// RecentSessions returns the newest sessions first.
func (s *SQLiteStore) RecentSessions(ctx context.Context, limit int) ([]types.Session, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, research_topic, paper_count, created_at, status
		 FROM `+sessionsCollection+`
		 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var sess types.Session
		var createdAt, status string
		if err := rows.Scan(&sess.SessionID, &sess.ResearchTopic, &sess.PaperCount, &createdAt, &status); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		sess.Status = types.SessionStatus(status)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// ListPapers returns stored records, filtered by research topic when
// topic is non-empty.
func (s *SQLiteStore) ListPapers(ctx context.Context, topic string, limit int) ([]types.PaperRecord, error) {
	if limit <= 0 {
		limit = statsScanLimit
	}

	query := `SELECT id, title, authors, abstract, published_date, url, source,
			categories, primary_category, keywords, abstract_word_count,
			normalized_at, quality_score, research_topic, session_id, stored_at
		FROM ` + papersCollection
	args := []any{}
	if topic != "" {
		query += ` WHERE research_topic = ?`
		args = append(args, topic)
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var records []types.PaperRecord
	for rows.Next() {
		rec, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanPaper(rows *sql.Rows) (types.PaperRecord, error) {
	var rec types.PaperRecord
	var authorsJSON, categoriesJSON, keywordsJSON string
	var publishedDate, normalizedAt, storedAt string

	err := rows.Scan(
		&rec.ID, &rec.Title, &authorsJSON, &rec.Abstract, &publishedDate,
		&rec.SourceURL, &rec.Source, &categoriesJSON, &rec.PrimaryCategory,
		&keywordsJSON, &rec.AbstractWordCount, &normalizedAt,
		&rec.QualityScore, &rec.ResearchTopic, &rec.SessionID, &storedAt,
	)
	if err != nil {
		return rec, fmt.Errorf("scanning paper row: %w", err)
	}

	json.Unmarshal([]byte(authorsJSON), &rec.Authors)
	json.Unmarshal([]byte(categoriesJSON), &rec.Categories)
	json.Unmarshal([]byte(keywordsJSON), &rec.Keywords)
	rec.PublishedDate, _ = time.Parse(time.RFC3339, publishedDate)
	rec.NormalizedAt, _ = time.Parse(time.RFC3339, normalizedAt)
	rec.StoredAt, _ = time.Parse(time.RFC3339, storedAt)
	return rec, nil
}
