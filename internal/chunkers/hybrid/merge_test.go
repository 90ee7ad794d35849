package hybrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curricula/internal/chunkers/structural"
	"github.com/custodia-labs/curricula/internal/core/domain"
)

func scenarioProgram() domain.Program {
	return domain.Program{
		Name:                "Ingenieria de Sistemas",
		Body:                "### Ingenieria de Sistemas\n...",
		SectionType:         domain.SectionUndergraduate,
		CostAmount:          5298134,
		CostRaw:             "5,298,134",
		OccupationalProfile: "Desarrollador de software.",
		Semesters: []domain.Semester{
			{Number: "I", Subjects: []domain.Subject{{Name: "Calculo I", Credits: 3}}},
			{Number: "II", Subjects: []domain.Subject{{Name: "Fisica I", Credits: 4}, {Name: "Algebra", Credits: 3}}},
		},
	}
}

func llmChunk(t domain.ChunkType, p domain.Program, content string) domain.Chunk {
	c := domain.NewChunk(content, t, p)
	c.Metadata[domain.MetaLLMGenerated] = true
	c.Metadata[domain.MetaSource] = domain.SourceLLMSemantic
	return c
}

func TestMerge_EmptyLLMIsIdentity(t *testing.T) {
	base := structural.New().Build(scenarioProgram())

	merged := Merge(nil, base)
	assert.Equal(t, base, merged)

	merged = Merge([]domain.Chunk{}, base)
	assert.Equal(t, base, merged)
	for _, c := range merged {
		assert.Equal(t, domain.SourceStructural, c.String(domain.MetaSource))
	}
}

func TestMerge_FeeCoverage(t *testing.T) {
	p := scenarioProgram()
	base := structural.New().Build(p)
	llm := []domain.Chunk{llmChunk(domain.ChunkTypeFee, p, "Cuesta mucho")}

	merged := Merge(llm, base)
	require.Len(t, merged, len(base))

	var fees []domain.Chunk
	for _, c := range merged {
		if c.Type() == domain.ChunkTypeFee {
			fees = append(fees, c)
		}
	}
	require.Len(t, fees, 1)
	assert.Equal(t, "Cuesta mucho", fees[0].Content)
	assert.True(t, fees[0].LLMGenerated())

	assert.Equal(t, llm[0], merged[0], "llm chunks come first and verbatim")
	for _, c := range merged[1:] {
		assert.Equal(t, domain.SourceStructuralFallback, c.String(domain.MetaSource))
		assert.False(t, c.LLMGenerated())
	}
}

func TestMerge_CoverageIsPerType(t *testing.T) {
	p := scenarioProgram()
	base := structural.New().Build(p)
	llm := []domain.Chunk{llmChunk(domain.ChunkTypeCurriculumSemester, p, "Semestre I resumido")}

	merged := Merge(llm, base)

	var semesters int
	for _, c := range merged {
		if c.Type() == domain.ChunkTypeCurriculumSemester {
			semesters++
		}
	}
	assert.Equal(t, 1, semesters, "one llm semester chunk suppresses every structural semester chunk")
}

func TestMerge_CoverageIsPerProgram(t *testing.T) {
	p := scenarioProgram()
	other := p
	other.Name = "Bioingenieria"

	base := structural.New().Build(p)
	llm := []domain.Chunk{llmChunk(domain.ChunkTypeFee, other, "Otro programa")}

	merged := Merge(llm, base)
	assert.Len(t, merged, len(base)+1)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	p := scenarioProgram()
	base := structural.New().Build(p)
	llm := []domain.Chunk{llmChunk(domain.ChunkTypeProgramOverview, p, "Resumen")}

	_ = Merge(llm, base)
	for _, c := range base {
		assert.Equal(t, domain.SourceStructural, c.String(domain.MetaSource))
	}
	assert.Len(t, llm, 1)
}
