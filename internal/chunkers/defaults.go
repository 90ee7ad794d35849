package chunkers

import (
	"fmt"

	"github.com/custodia-labs/curricula/internal/chunkers/hybrid"
	"github.com/custodia-labs/curricula/internal/chunkers/semantic"
	"github.com/custodia-labs/curricula/internal/chunkers/structural"
	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

// RegisterDefaults registers the structural, semantic and hybrid strategies.
// Auto is resolved by the caller before Build.
func RegisterDefaults(r *Registry) {
	r.Register(domain.ChunkingModeStructural, buildStructural)
	r.Register(domain.ChunkingModeSemantic, buildSemantic)
	r.Register(domain.ChunkingModeHybrid, buildHybrid)
}

// NewDefaultRegistry returns a registry with the defaults registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func buildStructural(cfg Config) (driven.ChunkStrategy, error) {
	return newStructural(cfg), nil
}

func buildSemantic(cfg Config) (driven.ChunkStrategy, error) {
	if cfg.LLM == nil {
		return nil, fmt.Errorf("semantic chunking: %w", domain.ErrLLMUnavailable)
	}
	return hybrid.NewFallback(newStructural(cfg), newSemantic(cfg)), nil
}

func buildHybrid(cfg Config) (driven.ChunkStrategy, error) {
	if cfg.LLM == nil {
		return nil, fmt.Errorf("hybrid chunking: %w", domain.ErrLLMUnavailable)
	}
	return hybrid.NewStrategy(newStructural(cfg), newSemantic(cfg)), nil
}

func newStructural(cfg Config) *structural.Builder {
	var opts []structural.Option
	if cfg.Settings.SummaryPolicy != "" {
		opts = append(opts, structural.WithSummaryPolicy(cfg.Settings.SummaryPolicy))
	}
	if cfg.Settings.LeadingSubjects > 0 {
		opts = append(opts, structural.WithLeadingSubjects(cfg.Settings.LeadingSubjects))
	}
	return structural.New(opts...)
}

func newSemantic(cfg Config) *semantic.Builder {
	rate := cfg.Settings.LLMRate
	if rate <= 0 {
		rate = semantic.DefaultRate
	}
	opts := []semantic.Option{semantic.WithRateLimit(rate, semantic.DefaultBurst)}
	if cfg.Prompts != nil {
		opts = append(opts, semantic.WithPromptStore(cfg.Prompts))
	}
	return semantic.New(cfg.LLM, opts...)
}
