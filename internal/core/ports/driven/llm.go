package driven

import (
	"context"
	"time"
)

// LLMService completes prompts for the semantic chunker. It is optional:
// with no LLM configured, programs are chunked structurally.
type LLMService interface {
	// Generate returns the model's completion of prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName identifies the model in status output and run records.
	ModelName() string

	// Ping checks that the provider answers and the model exists.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes one Generate call. Zero values leave the
// provider's defaults in place.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
	TopP        float64

	// Timeout bounds the request on top of ctx.
	Timeout time.Duration

	// Stop ends the completion at the first of these sequences.
	Stop []string
}
