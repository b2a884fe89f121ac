package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"tagcore/pkg/domain"
)

// Store is the live keyed collection of tag records. Every mutation validates
// its input, stages the change on a copy of the committed map, persists the
// staged snapshot through the configured adapter, swaps the committed map, and
// finally notifies listeners in registration order. A persistence failure
// therefore leaves both the committed map and the stored snapshot untouched.
//
// Listeners run synchronously while the store lock is held and must not call
// back into the store.
type Store struct {
	mu        sync.RWMutex
	tags      map[string]domain.Tag
	loaded    bool
	persist   domain.SnapshotStore
	listeners []domain.Listener
	alloc     *IDAllocator
}

// NewStore constructs a collection backed by the provided snapshot adapter.
// The collection is unusable for mutations until Load has run.
func NewStore(persist domain.SnapshotStore) *Store {
	s := &Store{persist: persist}
	s.alloc = NewIDAllocator(func(id string) bool {
		_, ok := s.tags[id]
		return ok
	})
	return s
}

// AddListener registers a listener for subsequent mutations. Listeners are
// notified in registration order.
func (s *Store) AddListener(l domain.Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Load hydrates the collection from the snapshot adapter, replacing any state
// held so far. It returns the hydrated records sorted by id. A missing
// document yields an empty collection.
func (s *Store) Load(ctx context.Context) ([]domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok, err := s.persist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	tags := make(map[string]domain.Tag)
	if ok {
		for id, tag := range snapshot.Tags {
			if tag.ID == "" {
				tag.ID = id
			}
			tags[id] = tag.Clone()
		}
	}
	s.tags = tags
	s.loaded = true
	return s.listLocked(), nil
}

// Loaded reports whether Load has completed successfully at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Get retrieves a tag by id from committed state.
func (s *Store) Get(id string) (domain.Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tag, ok := s.tags[id]
	if !ok {
		return domain.Tag{}, false
	}
	return tag.Clone(), true
}

// List returns all committed tags sorted by id.
func (s *Store) List() []domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *Store) listLocked() []domain.Tag {
	out := make([]domain.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		out = append(out, tag.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ExportState returns a deep copy of the committed snapshot.
func (s *Store) ExportState() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{Tags: s.tags}.Clone()
}

// Create validates payload, allocates an id when the payload carries none, and
// inserts the new record. The returned tag reflects the stored record. An
// error from a listener is returned to the caller even though the mutation has
// already been persisted and committed.
func (s *Store) Create(ctx context.Context, payload domain.Payload) (domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return domain.Tag{}, domain.ErrNotLoaded
	}
	tag, err := domain.ValidateCreate(payload)
	if err != nil {
		return domain.Tag{}, err
	}
	if tag.ID == "" {
		tag.ID = s.alloc.Generate()
	} else if _, exists := s.tags[tag.ID]; exists {
		return domain.Tag{}, domain.ErrIDConflict{ID: tag.ID}
	}

	staged := s.stage()
	staged[tag.ID] = tag.Clone()
	if err := s.persist.Save(ctx, domain.Snapshot{Tags: staged}); err != nil {
		return domain.Tag{}, fmt.Errorf("save snapshot: %w", err)
	}
	s.tags = staged
	return tag.Clone(), s.notify(ctx, domain.Change{Kind: domain.ChangeCreated, Tag: tag.Clone()})
}

// Update merges patch onto the stored record identified by id. The id field is
// immutable and must not appear in the patch.
func (s *Store) Update(ctx context.Context, id string, patch domain.Payload) (domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return domain.Tag{}, domain.ErrNotLoaded
	}
	current, ok := s.tags[id]
	if !ok {
		return domain.Tag{}, domain.ErrNotFound{ID: id}
	}
	merged, err := domain.ValidateUpdate(current, patch)
	if err != nil {
		return domain.Tag{}, err
	}

	staged := s.stage()
	staged[id] = merged.Clone()
	if err := s.persist.Save(ctx, domain.Snapshot{Tags: staged}); err != nil {
		return domain.Tag{}, fmt.Errorf("save snapshot: %w", err)
	}
	s.tags = staged
	return merged.Clone(), s.notify(ctx, domain.Change{Kind: domain.ChangeUpdated, Tag: merged.Clone()})
}

// Delete removes the record identified by id. The removal notification carries
// the last stored version of the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return domain.ErrNotLoaded
	}
	current, ok := s.tags[id]
	if !ok {
		return domain.ErrNotFound{ID: id}
	}

	staged := s.stage()
	delete(staged, id)
	if err := s.persist.Save(ctx, domain.Snapshot{Tags: staged}); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.tags = staged
	return s.notify(ctx, domain.Change{Kind: domain.ChangeRemoved, Tag: current.Clone()})
}

func (s *Store) stage() map[string]domain.Tag {
	staged := make(map[string]domain.Tag, len(s.tags)+1)
	for id, tag := range s.tags {
		staged[id] = tag.Clone()
	}
	return staged
}

// notify dispatches the change to every listener in registration order. A
// failing listener does not stop dispatch to the remaining listeners; the
// collected errors are joined and surface to the mutation caller.
func (s *Store) notify(ctx context.Context, change domain.Change) error {
	var errs []error
	for _, l := range s.listeners {
		if err := l.Notify(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
