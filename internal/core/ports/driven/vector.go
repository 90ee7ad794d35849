// Package driven declares the infrastructure the core calls out to.
//
// Embedding, vector storage, chunking and configuration are required.
// LLMService, PromptStore and RunStore may be nil. Without an LLM every
// program is chunked structurally; without a run store ingestions are
// simply not recorded.
package driven

import "context"

// VectorStore persists chunk vectors and answers nearest-neighbour queries.
// The collection is rebuilt wholesale: Clear then Add. Callers never write
// concurrently.
type VectorStore interface {
	// Add stores one entry per id. All four slices must have equal length.
	Add(ctx context.Context, ids, texts []string, metadatas []map[string]any, embeddings [][]float32) error

	// Query returns up to k entries nearest to embedding, restricted to
	// entries whose metadata equals every pair in where. k is clamped to
	// the collection size; an empty collection yields an empty result.
	Query(ctx context.Context, embedding []float32, k int, where map[string]string) (QueryResult, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Clear removes every entry from the collection.
	Clear(ctx context.Context) error

	// Name returns the collection name.
	Name() string

	// Close releases resources.
	Close() error
}

// QueryResult holds parallel slices ordered nearest first.
type QueryResult struct {
	IDs       []string
	Documents []string
	Metadatas []map[string]any
	Distances []float64
}

// Len returns the number of hits.
func (r QueryResult) Len() int {
	return len(r.IDs)
}
