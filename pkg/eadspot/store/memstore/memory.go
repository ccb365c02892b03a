package memstore

import (
	"context"
	"sync"

	"github.com/archivetools/eadspot/pkg/eadspot/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu          sync.RWMutex
	occurrences []store.Occurrence
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveOccurrence appends an occurrence record.
func (s *Store) SaveOccurrence(ctx context.Context, o store.Occurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occurrences = append(s.occurrences, o)
	return nil
}

// All returns every stored occurrence in insertion order.
func (s *Store) All() []store.Occurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Occurrence, len(s.occurrences))
	copy(out, s.occurrences)
	return out
}

// ListByRun returns the occurrences of one run in insertion order.
func (s *Store) ListByRun(ctx context.Context, runID string) ([]store.Occurrence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Occurrence
	for _, o := range s.occurrences {
		if o.RunID == runID {
			out = append(out, o)
		}
	}
	return out, nil
}
