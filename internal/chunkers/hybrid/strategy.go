package hybrid

import (
	"context"
	"fmt"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/logger"
)

// Strategy names.
const (
	Name         = "hybrid"
	FallbackName = "semantic"
)

var (
	_ driven.ChunkStrategy = (*Strategy)(nil)
	_ driven.ChunkStrategy = (*Fallback)(nil)
)

// Strategy runs the structural builder, then the semantic builder, and
// merges the two.
type Strategy struct {
	structural driven.ChunkStrategy
	semantic   driven.ChunkStrategy
}

// NewStrategy creates a hybrid strategy.
func NewStrategy(structural, semantic driven.ChunkStrategy) *Strategy {
	return &Strategy{structural: structural, semantic: semantic}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return Name
}

// ProduceChunks returns the merged chunks for p. Semantic failures are
// logged and leave the structural chunks.
func (s *Strategy) ProduceChunks(ctx context.Context, p domain.Program) ([]domain.Chunk, error) {
	base, err := s.structural.ProduceChunks(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("structural chunks for %q: %w", p.Name, err)
	}
	if s.semantic == nil {
		return base, nil
	}

	llm, err := s.semantic.ProduceChunks(ctx, p)
	if err != nil {
		logger.Debug("semantic chunks for %q: %v", p.Name, err)
		return base, nil
	}
	return Merge(llm, base), nil
}

// Fallback uses the semantic builder alone and falls back to the structural
// builder when the model yields nothing.
type Fallback struct {
	structural driven.ChunkStrategy
	semantic   driven.ChunkStrategy
}

// NewFallback creates a semantic-first strategy.
func NewFallback(structural, semantic driven.ChunkStrategy) *Fallback {
	return &Fallback{structural: structural, semantic: semantic}
}

// Name returns the strategy name.
func (f *Fallback) Name() string {
	return FallbackName
}

// ProduceChunks returns the model chunks for p, or the structural chunks
// when there are none.
func (f *Fallback) ProduceChunks(ctx context.Context, p domain.Program) ([]domain.Chunk, error) {
	if f.semantic != nil {
		chunks, err := f.semantic.ProduceChunks(ctx, p)
		if err == nil && len(chunks) > 0 {
			return chunks, nil
		}
		if err != nil {
			logger.Debug("semantic chunks for %q: %v", p.Name, err)
		}
	}

	chunks, err := f.structural.ProduceChunks(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("structural chunks for %q: %w", p.Name, err)
	}
	for i := range chunks {
		chunks[i].Metadata[domain.MetaSource] = domain.SourceStructuralFallback
	}
	return chunks, nil
}
