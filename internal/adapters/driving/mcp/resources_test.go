package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

func TestExtractProgramName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "plain name",
			uri:      "curricula://programs/Contaduria",
			expected: "Contaduria",
		},
		{
			name:     "percent encoded",
			uri:      "curricula://programs/Ingenier%C3%ADa%20de%20Sistemas",
			expected: "Ingeniería de Sistemas",
		},
		{
			name:     "empty name",
			uri:      "curricula://programs/",
			expected: "",
		},
		{
			name:     "whitespace only",
			uri:      "curricula://programs/%20%20",
			expected: "",
		},
		{
			name:     "wrong scheme",
			uri:      "https://programs/x",
			expected: "",
		},
		{
			name:     "bad escape",
			uri:      "curricula://programs/%zz",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractProgramName(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatusResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns status json", func(t *testing.T) {
		server := newTestServer(t, &mockSearchService{status: &domain.Status{
			Collection:   "curricula",
			ChunkCount:   7,
			ChunkingMode: domain.ChunkingModeStructural,
		}})

		result, err := server.handleStatusResource(ctx, makeReadResourceRequest("curricula://status"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var out StatusOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &out))
		assert.Equal(t, 7, out.ChunkCount)
		assert.Equal(t, "structural", out.ChunkingMode)
	})

	t.Run("service error", func(t *testing.T) {
		server := newTestServer(t, &mockSearchService{err: errors.New("boom")})

		_, err := server.handleStatusResource(ctx, makeReadResourceRequest("curricula://status"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting status")
	})
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil ingest service returns empty list", func(t *testing.T) {
		server := newTestServer(t, &mockSearchService{})

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("curricula://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists runs", func(t *testing.T) {
		ingest := &mockIngestService{runs: []domain.IngestRun{
			{
				ID:        "run-2",
				Source:    "programas.md",
				Mode:      domain.ChunkingModeHybrid,
				Stats:     domain.PipelineStats{ChunksCreated: 31, ProgramsProcessed: 4},
				StartedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				Duration:  1500 * time.Millisecond,
			},
			{ID: "run-1", Source: "programas.md", Skipped: true},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Ingest: ingest})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("curricula://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"id": "run-2"`)
		assert.Contains(t, text, `"chunks": 31`)
		assert.Contains(t, text, `"duration_ms": 1500`)
		assert.Contains(t, text, `"started_at": "2026-03-02T09:00:00Z"`)
		assert.Contains(t, text, `"skipped": true`)
	})

	t.Run("ingest error", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search: &mockSearchService{},
			Ingest: &mockIngestService{err: errors.New("db locked")},
		})
		require.NoError(t, err)

		_, err = server.handleRunsResource(ctx, makeReadResourceRequest("curricula://runs"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing runs")
	})
}

func TestServer_handleProgramResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns program content", func(t *testing.T) {
		complete := domain.NewSearchResult(domain.Chunk{
			Content: "Programa completo: Contaduría Pública",
			Metadata: map[string]any{
				domain.MetaType:        string(domain.ChunkTypeProgramComplete),
				domain.MetaProgramName: "Contaduría Pública",
			},
		}, 0.1)
		search := &mockSearchService{results: []domain.SearchResult{complete}}
		server := newTestServer(t, search)

		uri := "curricula://programs/Contadur%C3%ADa"
		result, err := server.handleProgramResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "Programa completo: Contaduría Pública", result.Contents[0].Text)

		assert.Equal(t, "Contaduría", search.lastQuery)
		assert.Equal(t, 1, search.lastOpts.K)
		assert.Equal(t, domain.ChunkTypeProgramComplete, search.lastOpts.TypeFilter)
	})

	t.Run("no match is not found", func(t *testing.T) {
		server := newTestServer(t, &mockSearchService{})

		_, err := server.handleProgramResource(ctx, makeReadResourceRequest("curricula://programs/Nada"))

		require.Error(t, err)
	})

	t.Run("empty name is not found", func(t *testing.T) {
		search := &mockSearchService{}
		server := newTestServer(t, search)

		_, err := server.handleProgramResource(ctx, makeReadResourceRequest("curricula://programs/"))

		require.Error(t, err)
		assert.Empty(t, search.lastQuery)
	})

	t.Run("search error", func(t *testing.T) {
		server := newTestServer(t, &mockSearchService{err: errors.New("boom")})

		_, err := server.handleProgramResource(ctx, makeReadResourceRequest("curricula://programs/X"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "finding program")
	})
}
