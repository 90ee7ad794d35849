// Package ai builds the embedding and LLM adapters named in the settings
// and checks that they answer before the rest of the app uses them.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	geminiembed "github.com/custodia-labs/curricula/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/curricula/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/curricula/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/curricula/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/curricula/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/curricula/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/curricula/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/logger"
)

// pingTimeout bounds each provider check.
const pingTimeout = 5 * time.Second

var errNoAnthropicEmbeddings = errors.New("anthropic does not support embeddings, use ollama, openai or gemini")

// InitResult holds whichever services came up. Warnings explain the
// ones that did not; the app runs degraded rather than failing.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string
}

// Close closes both services.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// Initialise creates and pings both services concurrently. Without
// embeddings, ingest and search report unavailable; without an LLM,
// chunking stays structural.
func Initialise(ctx context.Context, settings *domain.AppSettings) *InitResult {
	result := &InitResult{}
	if settings == nil {
		return result
	}

	var embErr, llmErr error
	var g errgroup.Group
	g.Go(func() error {
		result.EmbeddingService, embErr = CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
		return nil
	})
	g.Go(func() error {
		result.LLMService, llmErr = CreateAndValidateLLMService(ctx, &settings.LLM)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{embErr, llmErr} {
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			logger.Warn("%v", err)
		}
	}
	return result
}

// service is what validate needs from either adapter kind.
type service interface {
	comparable
	Ping(ctx context.Context) error
	Close() error
}

// validate pings a freshly created service and wraps failures in
// unavailable. A zero svc with no error means "not configured".
func validate[S service](ctx context.Context, svc S, err error, unavailable error) (S, error) {
	var zero S
	if err != nil {
		return zero, fmt.Errorf("%w: %w. Run 'curricula settings show' to check", unavailable, err)
	}
	if svc == zero {
		return zero, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return zero, fmt.Errorf("%w: service unreachable (%w)", unavailable, err)
	}
	return svc, nil
}

// CreateAndValidateEmbeddingService creates and pings the embedding
// service. Unconfigured settings return (nil, nil).
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, settings)
	return validate(ctx, svc, err, domain.ErrEmbeddingUnavailable)
}

// CreateAndValidateLLMService creates and pings the LLM service.
// Unconfigured settings return (nil, nil).
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(ctx, settings)
	return validate(ctx, svc, err, domain.ErrLLMUnavailable)
}

// ValidateEmbeddingConfig checks the settings without keeping the service.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if svc != nil {
		_ = svc.Close()
	}
	return err
}

// ValidateLLMConfig checks the settings without keeping the service.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(ctx, settings)
	if svc != nil {
		_ = svc.Close()
	}
	return err
}

// CreateEmbeddingService builds the adapter for settings.Provider without
// contacting it. Unconfigured settings return (nil, nil).
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch {
	case settings == nil:
		return nil, nil
	case settings.Provider == domain.AIProviderAnthropic:
		return nil, errNoAnthropicEmbeddings
	case !settings.IsConfigured():
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return asEmbedding(openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}))
	case domain.AIProviderGemini:
		return asEmbedding(geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}))
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService builds the adapter for settings.Provider without
// contacting it. Unconfigured settings return (nil, nil).
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return asLLM(openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}))
	case domain.AIProviderAnthropic:
		return asLLM(anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}))
	case domain.AIProviderGemini:
		return asLLM(geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}))
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// asEmbedding and asLLM keep a failed constructor's nil pointer from
// becoming a non-nil interface.
func asEmbedding[S driven.EmbeddingService](svc S, err error) (driven.EmbeddingService, error) {
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func asLLM[S driven.LLMService](svc S, err error) (driven.LLMService, error) {
	if err != nil {
		return nil, err
	}
	return svc, nil
}
