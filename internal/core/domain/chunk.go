package domain

import (
	"fmt"
	"maps"
	"strconv"
)

// ChunkType classifies the view of a program a chunk represents.
type ChunkType string

// Chunk types produced by the chunk builders.
const (
	ChunkTypeProgramComplete     ChunkType = "program_complete"
	ChunkTypeFee                 ChunkType = "fee"
	ChunkTypeOccupationalProfile ChunkType = "occupational_profile"
	ChunkTypeCurriculumSummary   ChunkType = "curriculum_summary"
	ChunkTypeCurriculumSemester  ChunkType = "curriculum_semester"

	// ChunkTypeProgramOverview is only ever produced by the language model.
	ChunkTypeProgramOverview ChunkType = "program_overview"
)

// AllChunkTypes returns every chunk type, structural types first.
func AllChunkTypes() []ChunkType {
	return []ChunkType{
		ChunkTypeProgramComplete,
		ChunkTypeFee,
		ChunkTypeOccupationalProfile,
		ChunkTypeCurriculumSummary,
		ChunkTypeCurriculumSemester,
		ChunkTypeProgramOverview,
	}
}

// IsValid returns true if the chunk type is recognised.
func (t ChunkType) IsValid() bool {
	for _, known := range AllChunkTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t ChunkType) String() string {
	return string(t)
}

// Metadata keys shared by every chunk producer and the vector store.
const (
	MetaType           = "type"
	MetaProgramName    = "program_name"
	MetaProgramType    = "program_type"
	MetaFeeAmount      = "fee_amount"
	MetaTotalSemesters = "total_semesters"
	MetaSemesterNumber = "semester_number"
	MetaSubjectCount   = "subject_count"
	MetaTotalCredits   = "total_credits"
	MetaSubjects       = "subjects"

	// Provenance.
	MetaLLMGenerated  = "llm_generated"
	MetaSource        = "source"
	MetaConfidence    = "confidence"
	MetaAttempt       = "attempt"
	MetaChunkStrategy = "chunk_strategy"
	MetaSemanticFocus = "semantic_focus"
	MetaEntities      = "extracted_entities"
)

// Values of MetaSource.
const (
	SourceStructural         = "structural"
	SourceStructuralFallback = "structural_fallback"
	SourceLLMSemantic        = "llm_semantic"
)

// Chunk is one retrievable unit of text.
// Chunks are not mutated after creation; use Clone before retagging.
type Chunk struct {
	// ID is assigned at ingestion when empty.
	ID string

	// Content is the rendered text that gets embedded.
	Content string

	// Metadata holds flat scalar values keyed by the Meta* constants.
	Metadata map[string]any
}

// NewChunk creates a chunk with the mandatory metadata fields set.
func NewChunk(content string, chunkType ChunkType, program Program) Chunk {
	return Chunk{
		Content: content,
		Metadata: map[string]any{
			MetaType:        string(chunkType),
			MetaProgramName: program.Name,
			MetaProgramType: program.SectionType.String(),
		},
	}
}

// Type returns the chunk type from metadata.
func (c Chunk) Type() ChunkType {
	return ChunkType(c.String(MetaType))
}

// ProgramName returns the program name from metadata.
func (c Chunk) ProgramName() string {
	return c.String(MetaProgramName)
}

// LLMGenerated returns true if the chunk came from the language model.
func (c Chunk) LLMGenerated() bool {
	return c.Bool(MetaLLMGenerated)
}

// Clone returns a copy of the chunk with its own metadata map.
func (c Chunk) Clone() Chunk {
	return Chunk{
		ID:       c.ID,
		Content:  c.Content,
		Metadata: maps.Clone(c.Metadata),
	}
}

// String returns a metadata value rendered as a string.
func (c Chunk) String(key string) string {
	v, ok := c.Metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns a numeric metadata value, 0 if missing or not numeric.
// Values read back from the vector store arrive as strings.
func (c Chunk) Int(key string) int64 {
	switch v := c.Metadata[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float returns a floating point metadata value, 0 if missing.
func (c Chunk) Float(key string) float64 {
	switch v := c.Metadata[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bool returns a boolean metadata value, false if missing.
func (c Chunk) Bool(key string) bool {
	switch v := c.Metadata[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	default:
		return false
	}
}

// CoverageKey identifies the (type, program_name) pair used when merging.
type CoverageKey struct {
	Type        ChunkType
	ProgramName string
}

// Coverage returns the merge key of the chunk.
func (c Chunk) Coverage() CoverageKey {
	return CoverageKey{Type: c.Type(), ProgramName: c.ProgramName()}
}
