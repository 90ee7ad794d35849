package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidProgram marks a program body without its cost, profile or
	// curriculum marker. Such programs yield no chunks.
	ErrInvalidProgram = errors.New("invalid program")

	// ErrLengthMismatch means the parallel slices handed to the vector
	// store differ in length, which is always a bug in the caller.
	ErrLengthMismatch = errors.New("length mismatch")

	ErrInvalidMode = errors.New("invalid chunking mode")

	// ErrLLMUnavailable disables semantic chunking; ingestion falls back
	// to structural chunks.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable disables both ingestion and search.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)
