package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
	"github.com/custodia-labs/curricula/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers similarity queries against the vector store.
type SearchService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	llm      driven.LLMService
	runs     driven.RunStore
	settings domain.AppSettings
}

// NewSearchService creates a new search service.
func NewSearchService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	settings domain.AppSettings,
) *SearchService {
	return &SearchService{
		embedder: embedder,
		store:    store,
		settings: settings,
	}
}

// SetLLMService sets the LLM reported by Status.
func (s *SearchService) SetLLMService(llm driven.LLMService) {
	s.llm = llm
}

// SetRunStore sets the run history reported by Status.
func (s *SearchService) SetRunStore(runs driven.RunStore) {
	s.runs = runs
}

// Search returns up to opts.K chunks ordered by descending similarity.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	defer logger.Stage("Search Execution")()
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	k := opts.K
	if k <= 0 {
		k = s.defaultK()
	}

	var where map[string]string
	if opts.TypeFilter != "" {
		where = map[string]string{domain.MetaType: opts.TypeFilter.String()}
	}
	logger.Debug("K: %d, filter: %v", k, where)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Query(ctx, embedding, k, where)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	results := make([]domain.SearchResult, 0, hits.Len())
	for i := 0; i < hits.Len(); i++ {
		chunk := domain.Chunk{
			ID:       hits.IDs[i],
			Content:  at(hits.Documents, i),
			Metadata: atMeta(hits.Metadatas, i),
		}
		results = append(results, domain.NewSearchResult(chunk, atDist(hits.Distances, i)))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}

// SmartSearch classifies the query and searches with the chosen filter and K.
func (s *SearchService) SmartSearch(ctx context.Context, query string) (*domain.SmartSearchResult, error) {
	class := Classify(query, s.defaultK())
	logger.Debug("Classified %q as %s (keyword %q)", query, class.Class, class.Keyword)

	results, err := s.Search(ctx, query, domain.SearchOptions{K: class.K, TypeFilter: class.TypeFilter})
	if err != nil {
		return nil, err
	}
	return &domain.SmartSearchResult{Classification: class, Results: results}, nil
}

// Status reports the corpus and collaborator state.
func (s *SearchService) Status(ctx context.Context) (*domain.Status, error) {
	status := &domain.Status{
		ChunkingMode: s.settings.Chunking.Mode,
		Workers:      s.settings.Chunking.Workers,
	}

	if s.store != nil {
		status.Collection = s.store.Name()
		count, err := s.store.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count collection: %w", err)
		}
		status.ChunkCount = count
	}
	if s.embedder != nil {
		status.Embedding = s.embedder.ModelName()
		status.EmbeddingOK = s.embedder.Ping(ctx) == nil
	}
	if s.llm != nil {
		status.LLM = s.llm.ModelName()
		status.LLMOK = s.llm.Ping(ctx) == nil
	}
	if s.runs != nil {
		if run, err := s.runs.Latest(ctx); err == nil {
			status.LastRun = run
		}
	}
	return status, nil
}

func (s *SearchService) defaultK() int {
	if s.settings.Search.DefaultK > 0 {
		return s.settings.Search.DefaultK
	}
	return domain.DefaultSearchK
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func atMeta(values []map[string]any, i int) map[string]any {
	if i < len(values) && values[i] != nil {
		return values[i]
	}
	return map[string]any{}
}

func atDist(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 1
}
