// Package openai embeds text with the OpenAI embeddings API or any
// server that speaks it.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/curricula/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults for an empty Config.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	// maxBatch is the number of inputs sent per request.
	maxBatch = 256

	// fallbackDimensions is assumed for models missing from modelDimensions.
	fallbackDimensions = 1536
)

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

var errNoAPIKey = errors.New("openai: API key is required")

// Config selects the endpoint and model. APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions asks text-embedding-3 models for shorter vectors.
	Dimensions int
}

// EmbeddingService calls /embeddings in batches of maxBatch.
type EmbeddingService struct {
	api   *apiclient.Client
	model string
	dims  int

	// shorten sends dims with each request.
	shorten bool
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewEmbeddingService creates the service. It fails only without a key.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	svc := &EmbeddingService{
		api:   apiclient.New("openai", cfg.BaseURL, cfg.Timeout, apiclient.WithBearer(cfg.APIKey)),
		model: cfg.Model,
		dims:  modelDimensions[cfg.Model],
	}
	switch {
	case cfg.Dimensions > 0:
		svc.dims = cfg.Dimensions
		svc.shorten = cfg.Model != "text-embedding-ada-002"
	case svc.dims == 0:
		svc.dims = fallbackDimensions
	}
	return svc, nil
}

// Embed embeds a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in order, maxBatch inputs per request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		batch, err := s.embed(ctx, texts[start:min(start+maxBatch, len(texts))])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// embed sends one request. The API may return data out of order, so
// vectors are placed by their index.
func (s *EmbeddingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := embeddingRequest{Model: s.model, Input: texts}
	if s.shorten {
		req.Dimensions = s.dims
	}

	var resp embeddingResponse
	if err := s.api.Post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float32(x)
		}
		vectors[d.Index] = v
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("openai: no embedding returned for input %d", i)
		}
	}
	return vectors, nil
}

// Dimensions returns the vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dims
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks the key by listing models.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models", nil)
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
