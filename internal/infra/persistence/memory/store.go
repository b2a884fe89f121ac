// Package memory provides an in-memory snapshot store used for tests and
// ephemeral environments. Documents live only for the lifetime of the process.
package memory

import (
	"context"
	"sync"

	"tagcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.SnapshotStore = (*Store)(nil)

// Store keeps the most recently saved snapshot in memory. The zero value via
// NewStore starts with no document, matching a backend that has never been
// written to.
type Store struct {
	mu       sync.Mutex
	snapshot domain.Snapshot
	present  bool
}

// NewStore constructs an empty in-memory snapshot store.
func NewStore() *Store {
	return &Store{}
}

// Load returns a deep copy of the stored snapshot, reporting false when no
// document has ever been saved.
func (s *Store) Load(_ context.Context) (domain.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return domain.Snapshot{}, false, nil
	}
	return s.snapshot.Clone(), true, nil
}

// Save replaces the stored document with a deep copy of the snapshot.
func (s *Store) Save(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot.Clone()
	s.present = true
	return nil
}
