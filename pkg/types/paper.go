// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RawPaper is one search result exactly as the retrieval backend returned
// it. No field is guaranteed to be present; normalization is responsible
// for turning this into a PaperRecord.
type RawPaper struct {
	// PaperID is the source identifier (e.g. "2301.07041"). May be empty.
	PaperID string `json:"paper_id"`

	// Title is the raw title, possibly with embedded newlines.
	Title string `json:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors"`

	// Abstract is the raw abstract text, possibly containing HTML tags.
	Abstract string `json:"abstract"`

	// Published is the publication timestamp as reported by the source,
	// unparsed (e.g. "2023-05-01T17:30:00Z").
	Published string `json:"published"`

	// PDFURL is the link to the paper PDF. May be empty.
	PDFURL string `json:"pdf_url"`

	// PrimaryCategory is the source's primary subject label (e.g. "cs.LG").
	PrimaryCategory string `json:"primary_category"`

	// Categories lists all subject labels.
	Categories []string `json:"categories"`

	// Source identifies the retrieval backend (e.g. "arxiv").
	Source string `json:"source"`
}

// PaperRecord is the canonical, schema-stable paper record produced by
// normalization. It is created once per raw result per pipeline run and
// never mutated afterwards, except for the three storage fields
// (ResearchTopic, SessionID, StoredAt) which the store attaches just
// before the write.
type PaperRecord struct {
	// ID is the unique storage key. Derived from the source identifier
	// when present, otherwise a deterministic hash of the title.
	// Re-ingesting a record with the same ID overwrites the stored copy.
	ID string `json:"paper_id" yaml:"paper_id" bson:"_id"`

	// Title is the whitespace-collapsed, trimmed title. May be empty.
	Title string `json:"title" yaml:"title" bson:"title"`

	// Authors lists trimmed, de-duplicated author names in
	// first-occurrence order.
	Authors []string `json:"authors" yaml:"authors" bson:"authors"`

	// Abstract is the tag-stripped, whitespace-collapsed abstract.
	Abstract string `json:"abstract" yaml:"abstract" bson:"abstract"`

	// PublishedDate is always valid: unparseable or missing input falls
	// back to the normalization wall-clock time.
	PublishedDate time.Time `json:"published_date" yaml:"published_date" bson:"published_date"`

	// SourceURL is the PDF or landing-page URL. May be empty.
	SourceURL string `json:"url" yaml:"url" bson:"url"`

	// Source identifies the retrieval backend (e.g. "arxiv").
	Source string `json:"source" yaml:"source" bson:"source"`

	// Categories lists all subject labels; PrimaryCategory is the
	// first-class one. Both may be empty.
	Categories      []string `json:"categories" yaml:"categories" bson:"categories"`
	PrimaryCategory string   `json:"primary_category" yaml:"primary_category" bson:"primary_category"`

	// Keywords holds up to 10 lowercase tokens extracted from the
	// abstract, stop words and short tokens removed, first-occurrence
	// order.
	Keywords []string `json:"keywords" yaml:"keywords" bson:"keywords"`

	// AbstractWordCount counts whitespace-separated tokens in the raw
	// (pre-cleaning) abstract.
	AbstractWordCount int `json:"abstract_word_count" yaml:"abstract_word_count" bson:"abstract_word_count"`

	// NormalizedAt is the normalization timestamp.
	NormalizedAt time.Time `json:"normalized_at" yaml:"normalized_at" bson:"normalized_at"`

	// QualityScore is the 0-100 completeness score computed from the raw
	// record's field presence.
	QualityScore int `json:"quality_score" yaml:"quality_score" bson:"quality_score"`

	// ResearchTopic, SessionID, and StoredAt are attached by the store at
	// persistence time, not by the normalizer.
	ResearchTopic string    `json:"research_topic,omitempty" yaml:"research_topic,omitempty" bson:"research_topic,omitempty"`
	SessionID     string    `json:"session_id,omitempty" yaml:"session_id,omitempty" bson:"session_id,omitempty"`
	StoredAt      time.Time `json:"stored_at,omitempty" yaml:"stored_at,omitempty" bson:"stored_at,omitempty"`
}
