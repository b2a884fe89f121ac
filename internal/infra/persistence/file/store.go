// Package file persists the snapshot document as a single JSON file on the
// local filesystem. Writes go through a temp file and rename so a crashed
// process never leaves a truncated document behind.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"tagcore/pkg/domain"
)

// Compile-time contract assertion ensuring file.Store adheres to the domain persistence interface.
var _ domain.SnapshotStore = (*Store)(nil)

// Store reads and writes the snapshot document at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore constructs a file-backed snapshot store at path, creating parent
// directories as needed. An empty path falls back to tagcore_tags.json in the
// working directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "tagcore_tags.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return &Store{path: path}, nil
}

// Load reads and decodes the document, reporting false when the file does not
// exist yet.
func (s *Store) Load(_ context.Context) (domain.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Tags == nil {
		snapshot.Tags = map[string]domain.Tag{}
	}
	return snapshot, true, nil
}

// Save encodes the snapshot and atomically replaces the document on disk.
func (s *Store) Save(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Path returns the configured document path.
func (s *Store) Path() string { return s.path }
