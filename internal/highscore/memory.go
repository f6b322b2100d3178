package highscore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

// Submit stores r after validation.
func (s *MemoryStore) Submit(_ context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	sortRecords(s.records)
	return nil
}

// Top returns the best limit records.
func (s *MemoryStore) Top(_ context.Context, limit int) ([]Record, error) {
	limit = clampLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(limit, len(s.records))
	out := make([]Record, n)
	copy(out, s.records[:n])
	return out, nil
}

// Get returns the record with the given ID.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
