// Package openai generates text with the OpenAI chat completions API or
// any server that speaks it.
package openai

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/curricula/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults for an empty LLMConfig.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 300 * time.Second
)

var (
	errNoAPIKey  = errors.New("openai: API key is required")
	errNoChoices = errors.New("openai: no choices returned")
)

// LLMConfig selects the endpoint and model. APIKey is required.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService sends each prompt as a single user message.
type LLMService struct {
	api   *apiclient.Client
	model string
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// NewLLMService creates the service. It fails only without a key.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   apiclient.New("openai", cfg.BaseURL, cfg.Timeout, apiclient.WithBearer(cfg.APIKey)),
		model: cfg.Model,
	}, nil
}

// Generate returns the content of the first choice.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var resp chatResponse
	err := s.api.Post(ctx, "/chat/completions", chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		Stop:        opts.Stop,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the key by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models", nil)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
