package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunRecord
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.RunRecord),
	}
}

// Save creates or replaces a run.
func (s *RunStore) Save(_ context.Context, run *domain.RunRecord) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// List returns runs newest first.
func (s *RunStore) List(_ context.Context, kind domain.RunKind, limit int) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		if kind == "" || run.Kind == kind {
			result = append(result, run)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Delete removes a run.
func (s *RunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.runs, id)
	return nil
}
