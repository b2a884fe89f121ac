package core

import (
	"context"
	"sync"
)

// EntityState is the externally visible projection of one tag. State is nil
// when the tag has never been scanned or its timestamp cannot be parsed.
type EntityState struct {
	EntityID   string            `json:"entity_id"`
	State      *string           `json:"state"`
	Attributes map[string]string `json:"attributes"`
}

// StateSink receives entity state publications and removals.
type StateSink interface {
	Publish(ctx context.Context, state EntityState) error
	Remove(ctx context.Context, entityID string) error
}

// MemoryStateSink retains published entity states in memory. It is the default
// sink and doubles as the inspection point for tests and the CLI.
type MemoryStateSink struct {
	mu      sync.RWMutex
	states  map[string]EntityState
	history []EntityState
}

// NewMemoryStateSink constructs an empty sink.
func NewMemoryStateSink() *MemoryStateSink {
	return &MemoryStateSink{states: make(map[string]EntityState)}
}

// Publish implements StateSink.
func (s *MemoryStateSink) Publish(_ context.Context, state EntityState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.EntityID] = cloneEntityState(state)
	s.history = append(s.history, cloneEntityState(state))
	return nil
}

// Remove implements StateSink.
func (s *MemoryStateSink) Remove(_ context.Context, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, entityID)
	return nil
}

// Get returns the current state for entityID.
func (s *MemoryStateSink) Get(entityID string) (EntityState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[entityID]
	if !ok {
		return EntityState{}, false
	}
	return cloneEntityState(state), true
}

// States returns a copy of all current entity states keyed by entity id.
func (s *MemoryStateSink) States() map[string]EntityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]EntityState, len(s.states))
	for id, state := range s.states {
		out[id] = cloneEntityState(state)
	}
	return out
}

// History returns every publication in order, including superseded ones.
func (s *MemoryStateSink) History() []EntityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EntityState, len(s.history))
	for i, state := range s.history {
		out[i] = cloneEntityState(state)
	}
	return out
}

func cloneEntityState(state EntityState) EntityState {
	cp := state
	if state.State != nil {
		v := *state.State
		cp.State = &v
	}
	if state.Attributes != nil {
		cp.Attributes = make(map[string]string, len(state.Attributes))
		for k, v := range state.Attributes {
			cp.Attributes[k] = v
		}
	}
	return cp
}
