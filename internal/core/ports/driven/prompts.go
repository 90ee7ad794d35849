package driven

// PromptStore serves the templates sent to the LLM by the semantic
// chunker. Templates use {program_name} and {content} placeholders.
type PromptStore interface {
	// Load returns the named template, falling back to the built-in text
	// for known names.
	Load(name string) (string, error)

	// Reload drops cached templates so edits on disk are picked up.
	Reload()
}

const (
	// PromptSemanticChunk splits a whole program into typed chunks.
	PromptSemanticChunk = "semantic_chunk"

	// PromptSemanticChunkShort is the retry prompt, sent with truncated
	// content after the full prompt fails.
	PromptSemanticChunkShort = "semantic_chunk_short"
)
