// Package memory provides an in-memory SpecStore, suitable for tests and
// single-process servers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jnothman/searchgrid/pkg/ports"
)

// Store implements ports.SpecStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]ports.SpecRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]ports.SpecRecord),
	}
}

// Put stores a copy of the record, so the caller cannot mutate the stored
// version afterwards.
func (s *Store) Put(ctx context.Context, rec *ports.SpecRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record needs an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = *rec
	return nil
}

// Get retrieves a copy of the record.
func (s *Store) Get(ctx context.Context, id string) (*ports.SpecRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, ports.ErrSpecNotFound
	}
	ret := rec
	return &ret, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns all records sorted by name.
func (s *Store) List(ctx context.Context) ([]*ports.SpecRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*ports.SpecRecord, 0, len(s.data))
	for _, rec := range s.data {
		ret := rec
		records = append(records, &ret)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}
