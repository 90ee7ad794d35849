package semantic

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

var errNoJSON = errors.New("no JSON object in response")

// response is the JSON shape the model is asked to produce.
type response struct {
	Chunks []responseChunk `json:"chunks" validate:"required,min=1,dive"`
}

type responseChunk struct {
	Content  string         `json:"content" validate:"required"`
	Type     string         `json:"type" validate:"required,oneof=fee occupational_profile curriculum_summary curriculum_semester program_overview program_complete"`
	Metadata map[string]any `json:"metadata"`
}

// extractJSON returns the span from the first "{" to the last "}".
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", errNoJSON
	}
	return raw[start : end+1], nil
}

// parseResponse decodes and validates a raw model response. The returned
// kind is OutcomeParseFailure for malformed JSON and OutcomeInvalidResponse
// for JSON that fails validation.
func parseResponse(raw string, validate *validator.Validate) (*response, OutcomeKind, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, OutcomeParseFailure, err
	}

	var resp response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, OutcomeParseFailure, fmt.Errorf("decode response: %w", err)
	}
	if err := validate.Struct(&resp); err != nil {
		return nil, OutcomeInvalidResponse, fmt.Errorf("validate response: %w", err)
	}
	return &resp, OutcomeSuccess, nil
}

// toChunks tags every response chunk with provenance for program p.
func toChunks(resp *response, p domain.Program, attempt int) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(resp.Chunks))
	for _, rc := range resp.Chunks {
		c := domain.NewChunk(rc.Content, domain.ChunkType(rc.Type), p)
		for k, v := range rc.Metadata {
			if _, reserved := c.Metadata[k]; reserved {
				continue
			}
			if s, ok := scalar(v); ok {
				c.Metadata[k] = s
			}
		}
		c.Metadata[domain.MetaLLMGenerated] = true
		c.Metadata[domain.MetaConfidence] = 0.9
		c.Metadata[domain.MetaAttempt] = attempt
		c.Metadata[domain.MetaSource] = domain.SourceLLMSemantic
		c.Metadata[domain.MetaChunkStrategy] = domain.SourceLLMSemantic
		chunks = append(chunks, c)
	}
	return chunks
}

// scalar flattens model metadata: lists are joined with ", ", nested
// objects are dropped.
func scalar(v any) (any, bool) {
	switch t := v.(type) {
	case string, bool, float64:
		return t, true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := scalar(item); ok {
				parts = append(parts, fmt.Sprint(s))
			}
		}
		return strings.Join(parts, ", "), true
	default:
		return nil, false
	}
}
