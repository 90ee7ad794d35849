// Package semantic provides the LLM-driven chunk builder.
//
// The builder asks a text-generation service to split a program into typed
// chunks returned as JSON. Each attempt yields a typed Outcome; failures move
// on to the next, cheaper attempt, and after the last failure the builder
// returns no chunks. It never returns an error.
package semantic

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/logger"
)

// Name is the strategy identifier.
const Name = "semantic"

// Default rate limit for model requests.
const (
	DefaultRate  = 2.0
	DefaultBurst = 1
)

// Ensure Builder implements the interface.
var _ driven.ChunkStrategy = (*Builder)(nil)

// Builder produces chunks by prompting an LLM.
type Builder struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	attempts    []Attempt
	limiter     *rate.Limiter
	validate    *validator.Validate
}

// Option configures the semantic builder.
type Option func(*Builder)

// WithPromptStore loads prompt templates from store instead of the built-in defaults.
func WithPromptStore(store driven.PromptStore) Option {
	return func(b *Builder) {
		b.promptStore = store
	}
}

// WithAttempts replaces the retry policy.
func WithAttempts(attempts ...Attempt) Option {
	return func(b *Builder) {
		if len(attempts) > 0 {
			b.attempts = attempts
		}
	}
}

// WithRateLimit caps model requests per second across all workers.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(b *Builder) {
		if perSecond <= 0 {
			b.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a semantic builder backed by llm.
func New(llm driven.LLMService, opts ...Option) *Builder {
	b := &Builder{
		llm:      llm,
		attempts: DefaultAttempts(),
		limiter:  rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the strategy name.
func (b *Builder) Name() string {
	return Name
}

// Available reports whether the LLM answers a ping.
func (b *Builder) Available(ctx context.Context) bool {
	return b.llm != nil && b.llm.Ping(ctx) == nil
}

// ProduceChunks returns the model's chunks for p, or none if every attempt fails.
func (b *Builder) ProduceChunks(ctx context.Context, p domain.Program) ([]domain.Chunk, error) {
	return b.Chunk(ctx, p).Chunks, nil
}

// Chunk runs the retry policy and returns the last outcome.
func (b *Builder) Chunk(ctx context.Context, p domain.Program) Outcome {
	if b.llm == nil {
		return Outcome{Kind: OutcomeTransportFailure, Err: domain.ErrLLMUnavailable}
	}

	var last Outcome
	for i, a := range b.attempts {
		last = b.try(ctx, p, i+1, a)
		logger.Debug("semantic %q attempt %d/%d: %s", p.Name, i+1, len(b.attempts), last.Kind)
		if last.OK() {
			return last
		}
		if last.Err != nil {
			logger.Debug("semantic %q attempt %d: %v", p.Name, i+1, last.Err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return Outcome{Attempt: last.Attempt, Kind: last.Kind, Err: last.Err}
}

func (b *Builder) try(ctx context.Context, p domain.Program, n int, a Attempt) Outcome {
	if err := b.limiter.Wait(ctx); err != nil {
		return Outcome{Attempt: n, Kind: OutcomeTransportFailure, Err: err}
	}

	prompt := b.prompt(a, p)

	attemptCtx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	raw, err := b.llm.Generate(attemptCtx, prompt, driven.GenerateOptions{
		MaxTokens:   a.MaxTokens,
		Temperature: Temperature,
		TopP:        TopP,
		Timeout:     a.Timeout,
	})
	if err != nil {
		return Outcome{Attempt: n, Kind: OutcomeTransportFailure, Err: err}
	}

	resp, kind, err := parseResponse(raw, b.validate)
	if err != nil {
		return Outcome{Attempt: n, Kind: kind, Err: err}
	}
	return Outcome{Attempt: n, Kind: OutcomeSuccess, Chunks: toChunks(resp, p, n)}
}

func (b *Builder) prompt(a Attempt, p domain.Program) string {
	r := strings.NewReplacer(
		PlaceholderName, p.Name,
		PlaceholderContent, truncate(p.Body, a.MaxInput),
	)
	return r.Replace(b.template(a.Prompt))
}

func (b *Builder) template(name string) string {
	if b.promptStore != nil {
		if tmpl, err := b.promptStore.Load(name); err == nil && tmpl != "" {
			return tmpl
		}
	}
	if name == driven.PromptSemanticChunkShort {
		return DefaultShortPrompt
	}
	return DefaultPrompt
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
