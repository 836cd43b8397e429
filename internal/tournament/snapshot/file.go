// Package snapshot provides the durable media the tournament store
// writes through: a single JSON document, either on disk or in a
// one-row Postgres table.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mkarpis/railbird/internal/models"
)

// FileStore persists the state as one JSON file, rewritten in full on
// every save. There is no partial-write protection: a crash mid-write
// can corrupt the file. Acceptable for this system's low write rate,
// single-writer profile.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed snapshotter at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted document. A missing file yields a nil
// state, which the store treats as a fresh tournament.
func (s *FileStore) Load() (*models.TournamentState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state models.TournamentState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return &state, nil
}

// Save rewrites the document in full.
func (s *FileStore) Save(state *models.TournamentState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
