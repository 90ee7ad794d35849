package driven

import (
	"context"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// RunStore persists ingestion history.
type RunStore interface {
	// Record saves a completed run.
	Record(ctx context.Context, run domain.IngestRun) error

	// Latest returns the most recent run, or domain.ErrNotFound.
	Latest(ctx context.Context) (*domain.IngestRun, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]domain.IngestRun, error)

	// Close releases resources.
	Close() error
}
