package mcp

import (
	"context"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	smart   *domain.SmartSearchResult
	cmp     *domain.Comparison
	status  *domain.Status
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSearchService) SmartSearch(_ context.Context, query string) (*domain.SmartSearchResult, error) {
	m.lastQuery = query
	return m.smart, m.err
}

func (m *mockSearchService) Compare(_ context.Context, _ []string, _ string) (*domain.Comparison, error) {
	return m.cmp, m.err
}

func (m *mockSearchService) Status(_ context.Context) (*domain.Status, error) {
	return m.status, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
// Only Runs is exercised by the server.
type mockIngestService struct {
	runs []domain.IngestRun
	err  error
}

func (m *mockIngestService) Ingest(_ context.Context, _ string, _ driving.IngestOptions) (*domain.IngestRun, error) {
	return nil, m.err
}

func (m *mockIngestService) Chunk(_ context.Context, _ string, _ driving.IngestOptions) (*driving.ChunkResult, error) {
	return nil, m.err
}

func (m *mockIngestService) IngestChunks(_ context.Context, _ []domain.Chunk) error {
	return m.err
}

func (m *mockIngestService) Runs(_ context.Context, _ int) ([]domain.IngestRun, error) {
	return m.runs, m.err
}

func feeResult() domain.SearchResult {
	chunk := domain.Chunk{
		Content: "Programa: Ingeniería de Sistemas\nCosto: $5,298,134 COP",
		Metadata: map[string]any{
			domain.MetaType:        string(domain.ChunkTypeFee),
			domain.MetaProgramName: "Ingeniería de Sistemas",
			domain.MetaFeeAmount:   "5298134",
		},
	}
	r := domain.NewSearchResult(chunk, 0.2)
	r.Rank = 1
	return r
}
