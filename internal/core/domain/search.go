package domain

import (
	"strconv"
	"strings"
)

// DefaultSearchK is the number of results returned when no K is given.
const DefaultSearchK = 5

// SearchOptions configures a similarity query.
type SearchOptions struct {
	// K is the maximum number of results. Zero means DefaultSearchK.
	K int

	// TypeFilter restricts results to a single chunk type when set.
	TypeFilter ChunkType
}

// SearchResult represents a single similarity hit.
type SearchResult struct {
	// Rank is the 1-based position after sorting by similarity.
	Rank int

	// Chunk is the stored chunk with metadata parsed back.
	Chunk Chunk

	// Similarity is 1 - Distance.
	Similarity float64

	// Distance is the raw distance reported by the vector store.
	Distance float64

	// RelevanceScore is Similarity scaled to 0-100.
	RelevanceScore float64

	ProgramName string
	ChunkType   ChunkType

	// ChunkingSource is "llm" or "structural".
	ChunkingSource string

	// Fee results only.
	FeeAmount    int64
	FormattedFee string

	// Semester results only.
	Semester string
	Credits  int64
	Subjects int64
}

// Chunking sources reported on search results.
const (
	ChunkingSourceLLM        = "llm"
	ChunkingSourceStructural = "structural"
)

// NewSearchResult builds an annotated result from a stored chunk and its distance.
// Rank is left at zero; callers assign it after sorting.
func NewSearchResult(chunk Chunk, distance float64) SearchResult {
	similarity := 1 - distance
	r := SearchResult{
		Chunk:          chunk,
		Similarity:     similarity,
		Distance:       distance,
		RelevanceScore: similarity * 100,
		ProgramName:    chunk.ProgramName(),
		ChunkType:      chunk.Type(),
		ChunkingSource: ChunkingSourceStructural,
	}
	if chunk.LLMGenerated() {
		r.ChunkingSource = ChunkingSourceLLM
	}

	switch r.ChunkType {
	case ChunkTypeFee:
		r.FeeAmount = chunk.Int(MetaFeeAmount)
		r.FormattedFee = FormatFee(r.FeeAmount)
	case ChunkTypeCurriculumSemester:
		r.Semester = chunk.String(MetaSemesterNumber)
		r.Credits = chunk.Int(MetaTotalCredits)
		r.Subjects = chunk.Int(MetaSubjectCount)
	}
	return r
}

// FormatFee renders an amount in pesos with thousands separators,
// e.g. 5298134 becomes "$5,298,134 COP".
func FormatFee(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(" COP")
	return b.String()
}

// QueryClass is the outcome of keyword classification of a query.
type QueryClass string

// Query classes in classifier priority order.
const (
	QueryClassFee        QueryClass = "fee"
	QueryClassProfession QueryClass = "occupational_profile"
	QueryClassCurriculum QueryClass = "curriculum"
	QueryClassSemester   QueryClass = "curriculum_semester"
	QueryClassGeneral    QueryClass = "general"
)

// Classification is the filter and result count chosen for a smart search.
type Classification struct {
	Class      QueryClass
	TypeFilter ChunkType
	K          int

	// Keyword is the word that triggered the class, empty for general.
	Keyword string
}

// SmartSearchResult carries results together with the chosen classification.
type SmartSearchResult struct {
	Classification Classification
	Results        []SearchResult
}

// Comparison aspects.
const (
	AspectFee        = "fee"
	AspectProfile    = "occupational_profile"
	AspectCurriculum = "curriculum"
)

// ProgramMatch is the best hit found for one program in a comparison.
type ProgramMatch struct {
	Program string
	Found   bool
	Result  SearchResult
}

// Comparison is the result of comparing several programs on one aspect.
type Comparison struct {
	Aspect  string
	Matches []ProgramMatch
	Summary string
}

// Status summarises the state of the corpus and its collaborators.
type Status struct {
	Collection   string
	ChunkCount   int
	Embedding    string
	EmbeddingOK  bool
	LLM          string
	LLMOK        bool
	ChunkingMode ChunkingMode
	Workers      int
	LastRun      *IngestRun
}
