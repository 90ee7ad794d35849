package semantic

import (
	"time"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

// Attempt describes one request in the retry policy.
type Attempt struct {
	// Timeout bounds the request.
	Timeout time.Duration

	// MaxTokens is the output budget.
	MaxTokens int

	// Prompt is the PromptStore name of the template.
	Prompt string

	// MaxInput truncates the program text to this many runes. Zero keeps it whole.
	MaxInput int
}

// Sampling parameters shared by every attempt.
const (
	Temperature = 0.1
	TopP        = 0.9
)

// DefaultAttempts is the two-tier policy: a full prompt with a short
// timeout, then a truncated prompt with a small budget and a long timeout.
func DefaultAttempts() []Attempt {
	return []Attempt{
		{Timeout: 120 * time.Second, MaxTokens: 1000, Prompt: driven.PromptSemanticChunk},
		{Timeout: 300 * time.Second, MaxTokens: 300, Prompt: driven.PromptSemanticChunkShort, MaxInput: 1500},
	}
}

// OutcomeKind classifies the result of one attempt.
type OutcomeKind int

// Attempt outcomes.
const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeTransportFailure
	OutcomeParseFailure
	OutcomeInvalidResponse
)

// String returns the outcome name used in logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeParseFailure:
		return "parse_failure"
	case OutcomeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of one attempt.
type Outcome struct {
	Attempt int
	Kind    OutcomeKind
	Chunks  []domain.Chunk
	Err     error
}

// OK returns true if the attempt produced chunks.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}
