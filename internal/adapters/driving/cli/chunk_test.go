package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

func sampleChunkResult() *driving.ChunkResult {
	program := domain.Program{Name: "Ingeniería de Sistemas", SectionType: domain.SectionTechnology}
	fee := domain.NewChunk("Costo de matrícula: $5.298.134", domain.ChunkTypeFee, program)
	overview := domain.NewChunk("Visión general", domain.ChunkTypeProgramOverview, program)
	overview.Metadata[domain.MetaLLMGenerated] = true

	return &driving.ChunkResult{
		Chunks:   []domain.Chunk{fee, overview},
		Mode:     domain.ChunkingModeHybrid,
		Rejected: []string{"Sede Pampalinda"},
		Missing:  []domain.SectionType{domain.SectionUndergraduate},
		Stats:    domain.PipelineStats{ProgramsProcessed: 1, ChunksCreated: 2},
	}
}

func TestChunkCmd_Flags(t *testing.T) {
	format := chunkCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "f", format.Shorthand)
	assert.Equal(t, formatText, format.DefValue)
}

func TestChunkCmd_Text(t *testing.T) {
	m, cleanup := setupTestServices()
	defer cleanup()
	m.ingest.chunks = sampleChunkResult()

	out, err := executeCommand(t, "chunk", "--mode", "hybrid", "curriculum.md")

	require.NoError(t, err)
	assert.Equal(t, domain.ChunkingModeHybrid, m.ingest.lastOpts.Mode)
	assert.Contains(t, out, "Missing sections: undergraduate")
	assert.Contains(t, out, "Rejected: Sede Pampalinda")
	assert.Contains(t, out, "[1] fee")
	assert.Contains(t, out, "Ingeniería de Sistemas (structural, 30 chars)")
	assert.Contains(t, out, "[2] program_overview")
	assert.Contains(t, out, "(llm, ")
	assert.Contains(t, out, "2 chunks from 1 programs (hybrid mode")
}

func TestChunkCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "chunk", "curriculum.md")

	require.NoError(t, err)
	assert.Contains(t, out, "No chunks produced.")
}

func TestChunkCmd_JSON(t *testing.T) {
	m, cleanup := setupTestServices()
	defer cleanup()
	m.ingest.chunks = sampleChunkResult()

	out, err := executeCommand(t, "chunk", "--format", "json", "curriculum.md")
	require.NoError(t, err)

	var records []chunkRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "fee", records[0].Metadata[domain.MetaType])
	assert.Equal(t, true, records[1].Metadata[domain.MetaLLMGenerated])
}

func TestChunkCmd_YAML(t *testing.T) {
	m, cleanup := setupTestServices()
	defer cleanup()
	m.ingest.chunks = sampleChunkResult()

	out, err := executeCommand(t, "chunk", "-f", "yaml", "curriculum.md")
	require.NoError(t, err)

	var records []chunkRecord
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Ingeniería de Sistemas", records[0].Metadata[domain.MetaProgramName])
}

func TestChunkCmd_UnknownFormat(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "chunk", "-f", "csv", "curriculum.md")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "csv"`)
}
