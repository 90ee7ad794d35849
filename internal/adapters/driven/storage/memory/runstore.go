package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore keeps ingestion history in memory.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.IngestRun
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record saves a completed run.
func (s *RunStore) Record(_ context.Context, run domain.IngestRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// Latest returns the most recent run.
func (s *RunStore) Latest(ctx context.Context) (*domain.IngestRun, error) {
	runs, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &runs[0], nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.IngestRun, error) {
	s.mu.RLock()
	runs := make([]domain.IngestRun, len(s.runs))
	copy(runs, s.runs)
	s.mu.RUnlock()

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op.
func (s *RunStore) Close() error {
	return nil
}
