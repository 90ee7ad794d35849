// Package chunkers selects chunk strategies by chunking mode.
package chunkers

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

// Config carries the collaborators and settings a strategy may need.
type Config struct {
	// LLM is nil when no model is configured.
	LLM driven.LLMService

	// Prompts overrides the built-in prompt templates. Optional.
	Prompts driven.PromptStore

	Settings domain.ChunkingSettings
}

// BuilderFunc creates a ChunkStrategy from config.
type BuilderFunc func(cfg Config) (driven.ChunkStrategy, error)

// Registry maps chunking modes to their builders.
type Registry struct {
	builders map[domain.ChunkingMode]BuilderFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[domain.ChunkingMode]BuilderFunc),
	}
}

// Register adds a builder for mode, replacing any existing one.
func (r *Registry) Register(mode domain.ChunkingMode, builder BuilderFunc) {
	r.builders[mode] = builder
}

// Build creates the strategy for mode.
// Returns domain.ErrInvalidMode if the mode is not registered.
func (r *Registry) Build(mode domain.ChunkingMode, cfg Config) (driven.ChunkStrategy, error) {
	builder, ok := r.builders[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidMode, mode)
	}
	return builder(cfg)
}

// Has returns true if mode is registered.
func (r *Registry) Has(mode domain.ChunkingMode) bool {
	_, ok := r.builders[mode]
	return ok
}

// Modes returns the registered modes, sorted.
func (r *Registry) Modes() []domain.ChunkingMode {
	modes := make([]domain.ChunkingMode, 0, len(r.builders))
	for mode := range r.builders {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}
