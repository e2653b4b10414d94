// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/research-collector/pkg/types"
)

func sampleSession() types.Session {
	return types.Session{
		SessionID:     "session_20230501_120000",
		ResearchTopic: "quantum computing",
		PaperCount:    1,
		CreatedAt:     time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
		Status:        types.SessionCompleted,
	}
}

func samplePapers() []types.PaperRecord {
	return []types.PaperRecord{{
		ID:                "2301.07041v2",
		Title:             "Quantum Error Correction at Scale",
		Authors:           []string{"Alice Chen"},
		Abstract:          "A study of quantum error correction.",
		PublishedDate:     time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC),
		SourceURL:         "http://arxiv.org/pdf/2301.07041v2",
		Source:            "arxiv",
		PrimaryCategory:   "quant-ph",
		Keywords:          []string{"quantum", "error", "correction"},
		AbstractWordCount: 6,
		QualityScore:      100,
	}}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteRun(dir, sampleSession(), samplePapers())
	if err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}
	if filepath.Base(path) != "session_20230501_120000.yaml" {
		t.Errorf("export path = %q, want file named after session", path)
	}

	run, err := ReadRun(path)
	if err != nil {
		t.Fatalf("ReadRun() error = %v", err)
	}
	if run.Session.SessionID != "session_20230501_120000" {
		t.Errorf("SessionID = %q", run.Session.SessionID)
	}
	if run.Session.ResearchTopic != "quantum computing" {
		t.Errorf("ResearchTopic = %q", run.Session.ResearchTopic)
	}
	if len(run.Papers) != 1 {
		t.Fatalf("len(Papers) = %d, want 1", len(run.Papers))
	}
	p := run.Papers[0]
	if p.ID != "2301.07041v2" || p.QualityScore != 100 {
		t.Errorf("paper round-trip = %+v", p)
	}
	if len(p.Keywords) != 3 || p.Keywords[0] != "quantum" {
		t.Errorf("Keywords round-trip = %v", p.Keywords)
	}
	if !p.PublishedDate.Equal(time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedDate round-trip = %v", p.PublishedDate)
	}
}

func TestWriteRunCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	if _, err := WriteRun(dir, sampleSession(), samplePapers()); err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("export directory not created: %v", err)
	}
}

func TestWriteRunLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteRun(dir, sampleSession(), samplePapers()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("export dir has %d entries, want 1", len(entries))
	}
}

func TestReadRunMissingFile(t *testing.T) {
	if _, err := ReadRun(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("ReadRun() on missing file should fail")
	}
}

func TestReadRunMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRun(path); err == nil {
		t.Error("ReadRun() on malformed YAML should fail")
	}
}
