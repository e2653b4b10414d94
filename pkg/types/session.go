// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SessionStatus indicates the outcome of a collection run.
type SessionStatus string

const (
	SessionCompleted SessionStatus = "completed"
)

// Session records one pipeline run for a given topic. Written once at
// persistence time, immutable thereafter.
type Session struct {
	// SessionID is derived from the run's wall-clock start time at second
	// granularity (e.g. "session_20260901_143005").
	SessionID string `json:"session_id" yaml:"session_id" bson:"_id"`

	// ResearchTopic is the query the run was collected for.
	ResearchTopic string `json:"research_topic" yaml:"research_topic" bson:"research_topic"`

	// PaperCount is the number of records stored in the run.
	PaperCount int `json:"paper_count" yaml:"paper_count" bson:"paper_count"`

	// CreatedAt is the session creation timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at" bson:"created_at"`

	// Status is the run outcome.
	Status SessionStatus `json:"status" yaml:"status" bson:"status"`
}

// StoreStats summarizes the contents of the paper store.
type StoreStats struct {
	// TotalPapers is the number of stored paper records.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// PapersBySource counts records per retrieval backend.
	PapersBySource map[string]int `json:"papers_by_source" yaml:"papers_by_source"`

	// PapersByCategory counts records per primary category.
	PapersByCategory map[string]int `json:"papers_by_category" yaml:"papers_by_category"`
}
