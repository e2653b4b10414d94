// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes collection runs to YAML files for archival and
// hand inspection outside the database.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-collector/pkg/types"
)

// Run bundles one session with its records for serialization.
type Run struct {
	Session types.Session       `yaml:"session"`
	Papers  []types.PaperRecord `yaml:"papers"`
}

// WriteRun writes the session and its records to dir/[sessionID].yaml,
// creating dir if needed, and returns the file path. The write goes
// through a temp file renamed on success so a partial write never leaves
// a truncated export behind.
func WriteRun(dir string, session types.Session, records []types.PaperRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(Run{Session: session, Papers: records})
	if err != nil {
		return "", fmt.Errorf("marshaling run export: %w", err)
	}

	path := filepath.Join(dir, session.SessionID+".yaml")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("renaming export file: %w", err)
	}
	return path, nil
}

// ReadRun loads a previously written export file.
func ReadRun(path string) (Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Run{}, fmt.Errorf("reading export file %s: %w", path, err)
	}
	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return Run{}, fmt.Errorf("parsing export file %s: %w", path, err)
	}
	return run, nil
}
