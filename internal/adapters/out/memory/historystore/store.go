// Package historystore keeps cached test history in process memory.
package historystore

import (
	"context"
	"sync"

	"labconsole/internal/core/domain/model/history"
)

type key struct {
	scope       string
	orderTestID int64
}

// Store is a ports.HistoryStore backed by a map. Series are copied on the way
// in and out so callers never share a backing array with the store.
type Store struct {
	mu      sync.RWMutex
	entries map[key]history.Series
}

func NewStore() *Store {
	return &Store{entries: make(map[key]history.Series)}
}

func (s *Store) Get(_ context.Context, scope string, orderTestID int64) (history.Series, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.entries[key{scope, orderTestID}]
	if !ok {
		return nil, false, nil
	}
	return series.Clone(), true, nil
}

func (s *Store) Put(_ context.Context, scope string, orderTestID int64, series history.Series) error {
	if series == nil {
		series = history.Series{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key{scope, orderTestID}] = series.Clone()
	return nil
}

func (s *Store) Delete(_ context.Context, scope string, orderTestID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key{scope, orderTestID})
	return nil
}

func (s *Store) DeleteScope(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.entries {
		if k.scope == scope {
			delete(s.entries, k)
		}
	}
	return nil
}

// Len returns the number of cached entries across all scopes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
