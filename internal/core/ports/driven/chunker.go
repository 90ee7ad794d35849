package driven

import (
	"context"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// ChunkStrategy turns one validated program into retrievable chunks.
// Implementations must not mutate the program and must be safe for
// concurrent use by the pipeline's workers.
type ChunkStrategy interface {
	// Name returns the strategy identifier recorded in chunk provenance.
	Name() string

	// ProduceChunks returns the chunks for program. An error means the
	// program produced nothing; the pipeline logs it and moves on.
	ProduceChunks(ctx context.Context, program domain.Program) ([]domain.Chunk, error)
}
