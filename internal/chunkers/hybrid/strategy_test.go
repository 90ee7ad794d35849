package hybrid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curricula/internal/chunkers/structural"
	"github.com/custodia-labs/curricula/internal/core/domain"
)

type stubStrategy struct {
	name   string
	chunks []domain.Chunk
	err    error
	calls  int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) ProduceChunks(_ context.Context, _ domain.Program) ([]domain.Chunk, error) {
	s.calls++
	return s.chunks, s.err
}

func TestStrategy_MergesSemanticOverStructural(t *testing.T) {
	p := scenarioProgram()
	sem := &stubStrategy{name: "semantic", chunks: []domain.Chunk{llmChunk(domain.ChunkTypeFee, p, "fee")}}
	s := NewStrategy(structural.New(), sem)

	assert.Equal(t, "hybrid", s.Name())

	chunks, err := s.ProduceChunks(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, chunks, structural.ExpectedChunkCount(p, domain.SummaryAlways))
	assert.Equal(t, 1, sem.calls)
	assert.True(t, chunks[0].LLMGenerated())
}

func TestStrategy_SemanticErrorKeepsStructural(t *testing.T) {
	p := scenarioProgram()
	sem := &stubStrategy{name: "semantic", err: errors.New("boom")}
	s := NewStrategy(structural.New(), sem)

	chunks, err := s.ProduceChunks(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, structural.New().Build(p), chunks)
}

func TestStrategy_NilSemantic(t *testing.T) {
	p := scenarioProgram()
	chunks, err := NewStrategy(structural.New(), nil).ProduceChunks(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, chunks, 6)
}

func TestStrategy_StructuralErrorPropagates(t *testing.T) {
	base := &stubStrategy{name: "structural", err: errors.New("bad")}
	_, err := NewStrategy(base, nil).ProduceChunks(context.Background(), scenarioProgram())
	assert.Error(t, err)
}

func TestFallback_UsesSemanticWhenAvailable(t *testing.T) {
	p := scenarioProgram()
	sem := &stubStrategy{chunks: []domain.Chunk{llmChunk(domain.ChunkTypeProgramOverview, p, "x")}}
	f := NewFallback(structural.New(), sem)

	assert.Equal(t, "semantic", f.Name())

	chunks, err := f.ProduceChunks(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, domain.ChunkTypeProgramOverview, chunks[0].Type())
}

func TestFallback_EmptySemanticFallsBack(t *testing.T) {
	p := scenarioProgram()
	f := NewFallback(structural.New(), &stubStrategy{})

	chunks, err := f.ProduceChunks(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, chunks, 6)
	for _, c := range chunks {
		assert.Equal(t, domain.SourceStructuralFallback, c.String(domain.MetaSource))
		assert.False(t, c.LLMGenerated())
	}
}

func TestFallback_SemanticErrorFallsBack(t *testing.T) {
	p := scenarioProgram()
	f := NewFallback(structural.New(), &stubStrategy{err: errors.New("timeout")})

	chunks, err := f.ProduceChunks(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, chunks, 6)
}
