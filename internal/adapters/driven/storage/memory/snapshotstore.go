// Package memory provides in-memory storage adapters, used in tests and
// as a fallback when durable storage is unavailable.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu     sync.RWMutex
	states map[string]domain.ListState
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		states: make(map[string]domain.ListState),
	}
}

// Save stores or replaces the state for a list.
func (s *SnapshotStore) Save(_ context.Context, state domain.ListState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ListID] = copyState(state)
	return nil
}

// Get retrieves the state for a list.
func (s *SnapshotStore) Get(_ context.Context, listID string) (*domain.ListState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[listID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyState(state)
	return &out, nil
}

// Delete removes the state for a list.
func (s *SnapshotStore) Delete(_ context.Context, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, listID)
	return nil
}

// copyState clones item slices so callers cannot mutate stored state.
func copyState(state domain.ListState) domain.ListState {
	items := make([]json.RawMessage, len(state.Items))
	for i, raw := range state.Items {
		items[i] = append(json.RawMessage(nil), raw...)
	}
	state.Items = items
	return state
}
