package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService for command tests.
type mockSearchService struct {
	results []domain.SearchResult
	smart   *domain.SmartSearchResult
	cmp     *domain.Comparison
	status  *domain.Status
	err     error

	lastQuery    string
	lastOpts     domain.SearchOptions
	lastPrograms []string
	lastAspect   string
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockSearchService) SmartSearch(_ context.Context, query string) (*domain.SmartSearchResult, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if m.smart != nil {
		return m.smart, nil
	}
	return &domain.SmartSearchResult{
		Classification: domain.Classification{Class: domain.QueryClassGeneral, K: domain.DefaultSearchK},
		Results:        m.results,
	}, nil
}

func (m *mockSearchService) Compare(_ context.Context, programs []string, aspect string) (*domain.Comparison, error) {
	m.lastPrograms = programs
	m.lastAspect = aspect
	if m.err != nil {
		return nil, m.err
	}
	if m.cmp != nil {
		return m.cmp, nil
	}
	return &domain.Comparison{Aspect: aspect}, nil
}

func (m *mockSearchService) Status(_ context.Context) (*domain.Status, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.status != nil {
		return m.status, nil
	}
	return &domain.Status{ChunkingMode: domain.ChunkingModeAuto}, nil
}

// mockIngestService implements driving.IngestService for command tests.
type mockIngestService struct {
	run    *domain.IngestRun
	chunks *driving.ChunkResult
	runs   []domain.IngestRun
	err    error

	lastPath  string
	lastOpts  driving.IngestOptions
	lastLimit int
	ingested  []domain.Chunk
}

func (m *mockIngestService) Ingest(_ context.Context, path string, opts driving.IngestOptions) (*domain.IngestRun, error) {
	m.lastPath = path
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.run != nil {
		return m.run, nil
	}
	return &domain.IngestRun{ID: "run-1", Source: path, Mode: domain.ChunkingModeStructural}, nil
}

func (m *mockIngestService) Chunk(_ context.Context, path string, opts driving.IngestOptions) (*driving.ChunkResult, error) {
	m.lastPath = path
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return &driving.ChunkResult{Mode: domain.ChunkingModeStructural}, nil
}

func (m *mockIngestService) IngestChunks(_ context.Context, chunks []domain.Chunk) error {
	if m.err != nil {
		return m.err
	}
	m.ingested = append(m.ingested, chunks...)
	return nil
}

func (m *mockIngestService) Runs(_ context.Context, limit int) ([]domain.IngestRun, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.runs, nil
}

// mockSettingsService implements driving.SettingsService for command tests.
type mockSettingsService struct {
	settings    *domain.AppSettings
	validateErr error
	setErr      error
	set         map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		m.settings = &s
	}
	return m.settings, nil
}

func (m *mockSettingsService) Validate(_ *domain.AppSettings) error {
	return m.validateErr
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"document.path", "chunking.mode", "llm.api_key"}
}

var errBoom = errors.New("boom")

// testMocks are the services installed by setupTestServices.
type testMocks struct {
	search   *mockSearchService
	ingest   *mockIngestService
	settings *mockSettingsService
}

// setupTestServices installs fresh mocks and returns them with a cleanup
// func restoring the previous services.
func setupTestServices() (*testMocks, func()) {
	prev := Services{Ingest: ingestService, Search: searchService, Settings: settingsService, Check: providerCheck}

	m := &testMocks{
		search:   &mockSearchService{},
		ingest:   &mockIngestService{},
		settings: &mockSettingsService{},
	}
	SetServices(Services{Ingest: m.ingest, Search: m.search, Settings: m.settings})

	return m, func() {
		SetServices(prev)
	}
}

// feeResult is a ranked fee hit for Ingeniería de Sistemas.
func feeResult() domain.SearchResult {
	chunk := domain.Chunk{
		ID:      "c1",
		Content: "Programa: Ingeniería de Sistemas\nCosto de matrícula: $5.298.134",
		Metadata: map[string]any{
			domain.MetaType:        string(domain.ChunkTypeFee),
			domain.MetaProgramName: "Ingeniería de Sistemas",
			domain.MetaFeeAmount:   "5298134",
			domain.MetaSource:      domain.SourceStructural,
		},
	}
	r := domain.NewSearchResult(chunk, 0.2)
	r.Rank = 1
	return r
}

// sampleRun is a completed structural run.
func sampleRun() domain.IngestRun {
	return domain.IngestRun{
		ID:        "run-1",
		Source:    "curriculum.md",
		Mode:      domain.ChunkingModeStructural,
		StartedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Stats: domain.PipelineStats{
			ProgramsProcessed:     4,
			TechnologyPrograms:    2,
			UndergraduatePrograms: 2,
			ChunksCreated:         15,
			SemesterChunks:        6,
			StructuralChunks:      15,
		},
	}
}
