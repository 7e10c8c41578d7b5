package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// It backs --ephemeral runs.
type SessionStore struct {
	mu      sync.RWMutex
	records []domain.SessionRecord
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Append stores a copy of the record.
func (s *SessionStore) Append(_ context.Context, record domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, clone(record))
	return nil
}

// List returns the most recent records, newest first.
func (s *SessionStore) List(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]domain.SessionRecord, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, clone(s.records[i]))
	}
	return result, nil
}

// Len returns the number of stored records.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func clone(r domain.SessionRecord) domain.SessionRecord {
	r.Matched = slices.Clone(r.Matched)
	r.Affirmed = slices.Clone(r.Affirmed)
	return r
}
