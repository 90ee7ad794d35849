// Package gemini provides an embedding service adapter using the Google
// Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel   = "text-embedding-004"
	DefaultTimeout = 60 * time.Second

	// maxBatch is the Gemini API limit on contents per request.
	maxBatch = 100
)

var modelDimensions = map[string]int{
	"text-embedding-004":   768,
	"gemini-embedding-001": 3072,
}

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions requests a reduced output size when set.
	Dimensions int
}

// EmbeddingService generates embeddings with Models.EmbedContent.
type EmbeddingService struct {
	client     *genai.Client
	model      string
	dimensions int
	reduce     bool
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	svc := &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: modelDimensions[cfg.Model],
	}
	if cfg.Dimensions > 0 {
		svc.dimensions = cfg.Dimensions
		svc.reduce = true
	}
	return svc, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch embeds texts in input order, maxBatch per request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var config *genai.EmbedContentConfig
	if s.reduce {
		dim := int32(s.dimensions) //nolint:gosec // G115: dimensions are small positive ints.
		config = &genai.EmbedContentConfig{OutputDimensionality: &dim}
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, text := range texts[start:end] {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}

		result, err := s.client.Models.EmbedContent(ctx, s.model, contents, config)
		if err != nil {
			return nil, fmt.Errorf("gemini: embed: %w", err)
		}
		if result == nil || len(result.Embeddings) != len(contents) {
			got := 0
			if result != nil {
				got = len(result.Embeddings)
			}
			return nil, fmt.Errorf("gemini: expected %d embeddings, got %d", len(contents), got)
		}
		for _, e := range result.Embeddings {
			out = append(out, e.Values)
		}
	}
	return out, nil
}

// Dimensions returns the embedding vector size, or 0 for unknown models.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping looks up the configured model, which validates key and model name.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources. The genai client holds none.
func (s *EmbeddingService) Close() error {
	return nil
}
