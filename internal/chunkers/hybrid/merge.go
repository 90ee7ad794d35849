// Package hybrid combines model-generated and structural chunks.
package hybrid

import (
	"github.com/custodia-labs/curricula/internal/core/domain"
)

// Merge keeps every llm chunk and adds each structural chunk whose
// (type, program_name) pair no llm chunk covers. Added chunks are copies
// tagged as structural fallbacks.
//
// With no llm chunks the structural slice is returned as is.
func Merge(llm, structural []domain.Chunk) []domain.Chunk {
	if len(llm) == 0 {
		return structural
	}

	covered := make(map[domain.CoverageKey]struct{}, len(llm))
	for _, c := range llm {
		covered[c.Coverage()] = struct{}{}
	}

	merged := make([]domain.Chunk, len(llm), len(llm)+len(structural))
	copy(merged, llm)

	for _, c := range structural {
		if _, ok := covered[c.Coverage()]; ok {
			continue
		}
		fallback := c.Clone()
		fallback.Metadata[domain.MetaSource] = domain.SourceStructuralFallback
		fallback.Metadata[domain.MetaLLMGenerated] = false
		merged = append(merged, fallback)
	}

	return merged
}
