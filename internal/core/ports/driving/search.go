// Package driving declares what the CLI, TUI and MCP server may ask of
// the core. internal/core/services implements it.
package driving

import (
	"context"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// SearchService answers questions against the ingested corpus.
type SearchService interface {
	// Search returns up to opts.K chunks ordered by descending similarity.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// SmartSearch classifies the query to pick a type filter and K, then searches.
	SmartSearch(ctx context.Context, query string) (*domain.SmartSearchResult, error)

	// Compare finds the best chunk for each program on one aspect.
	Compare(ctx context.Context, programs []string, aspect string) (*domain.Comparison, error)

	// Status reports the corpus and collaborator state.
	Status(ctx context.Context) (*domain.Status, error)
}
