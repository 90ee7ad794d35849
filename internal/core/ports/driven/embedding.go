package driven

import "context"

// EmbeddingService maps text to dense vectors. Queries must be embedded
// by the same model as the corpus they are run against.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch keeps the order of texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions may be 0 until the first vector has been produced.
	Dimensions() int
	ModelName() string

	// Ping fails when the provider is unreachable or lacks the model.
	Ping(ctx context.Context) error
	Close() error
}
