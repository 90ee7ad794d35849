package driving

import (
	"context"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// IngestOptions configures a single ingestion.
type IngestOptions struct {
	// Force rebuilds the collection even when it already holds chunks.
	Force bool

	// Mode overrides the configured chunking mode when set.
	Mode domain.ChunkingMode

	// Workers overrides the configured worker count when positive.
	Workers int
}

// ChunkResult is the output of running the chunking pipeline alone.
type ChunkResult struct {
	Chunks   []domain.Chunk
	Stats    domain.PipelineStats
	Mode     domain.ChunkingMode
	Rejected []string
	Missing  []domain.SectionType
}

// IngestService builds the vector corpus from the curriculum document.
type IngestService interface {
	// Ingest parses, chunks, embeds and stores the document at path.
	Ingest(ctx context.Context, path string, opts IngestOptions) (*domain.IngestRun, error)

	// Chunk runs the chunking pipeline on the document at path without storing anything.
	Chunk(ctx context.Context, path string, opts IngestOptions) (*ChunkResult, error)

	// IngestChunks embeds and stores chunks as-is.
	IngestChunks(ctx context.Context, chunks []domain.Chunk) error

	// Runs lists recent ingestion runs, newest first.
	Runs(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
