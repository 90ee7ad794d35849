// Package ollama embeds text with a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/curricula/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults for an empty Config.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "bge-m3"
	DefaultTimeout = 60 * time.Second
)

// modelDimensions holds the sizes of common embedding models. Other
// models report theirs with the first embedding.
var modelDimensions = map[string]int{
	"bge-m3":            1024,
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// Config selects the server and model. Zero fields take the defaults.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions overrides the size looked up for Model.
	Dimensions int
}

// EmbeddingService calls /api/embed, which takes the whole batch in one
// request.
type EmbeddingService struct {
	api   *apiclient.Client
	model string

	mu   sync.RWMutex
	dims int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewEmbeddingService creates the service. No request is made until the
// first Embed or Ping.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = modelDimensions[cfg.Model]
	}
	return &EmbeddingService{
		api:   apiclient.New("ollama", cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
		dims:  cfg.Dimensions,
	}
}

// Embed embeds a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, values := range resp.Embeddings {
		vectors[i] = toFloat32(values)
	}

	s.mu.Lock()
	if s.dims == 0 {
		s.dims = len(vectors[0])
	}
	s.mu.Unlock()
	return vectors, nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}

// Dimensions returns the vector size, or 0 before the first embedding
// of a model with no known size.
func (s *EmbeddingService) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dims
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists the installed models and fails when the embedding model has
// not been pulled. Unlike the LLM there is no fallback: vectors from
// another model would not match the stored ones.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	var tags tagsResponse
	if err := s.api.Get(ctx, "/api/tags", &tags); err != nil {
		return err
	}
	for _, m := range tags.Models {
		name, _, _ := strings.Cut(m.Name, ":")
		if m.Name == s.model || name == s.model {
			return nil
		}
	}
	return fmt.Errorf("ollama: embedding model %q is not installed (ollama pull %s)", s.model, s.model)
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
