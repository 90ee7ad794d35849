package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or keywords to search for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of results (default 5)"`
	Type  string `json:"type,omitempty" jsonschema:"restrict to one chunk type: fee, occupational_profile, curriculum_summary, curriculum_semester, program_complete or program_overview"`
}

// SmartSearchInput is the input schema for the smart_search tool.
type SmartSearchInput struct {
	Query string `json:"query" jsonschema:"the question in natural language"`
}

// CompareInput is the input schema for the compare_programs tool.
type CompareInput struct {
	Programs []string `json:"programs" jsonschema:"program names to compare"`
	Aspect   string   `json:"aspect,omitempty" jsonschema:"fee, occupational_profile or curriculum (default fee)"`
}

// StatusInput is the empty input of the status tool.
type StatusInput struct{}

// SearchOutput is the output schema for the search tools.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`

	// Class and Keyword are set by smart_search only.
	Class   string `json:"class,omitempty"`
	Keyword string `json:"keyword,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Rank           int     `json:"rank"`
	Program        string  `json:"program_name"`
	Type           string  `json:"type"`
	Similarity     float64 `json:"similarity"`
	ChunkingSource string  `json:"chunking_source"`
	FormattedFee   string  `json:"formatted_fee,omitempty"`
	Semester       string  `json:"semester,omitempty"`
	Credits        int64   `json:"credits,omitempty"`
	Content        string  `json:"content"`
}

// CompareOutput is the output schema for the compare_programs tool.
type CompareOutput struct {
	Aspect  string               `json:"aspect"`
	Matches []ProgramMatchOutput `json:"matches"`
	Summary string               `json:"summary"`
}

// ProgramMatchOutput is the best hit for one requested program.
type ProgramMatchOutput struct {
	Program string              `json:"program"`
	Found   bool                `json:"found"`
	Result  *SearchResultOutput `json:"result,omitempty"`
}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	Collection   string `json:"collection"`
	ChunkCount   int    `json:"chunk_count"`
	Embedding    string `json:"embedding"`
	EmbeddingOK  bool   `json:"embedding_ok"`
	LLM          string `json:"llm,omitempty"`
	LLMOK        bool   `json:"llm_ok"`
	ChunkingMode string `json:"chunking_mode"`
	LastRun      string `json:"last_run,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true}

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "search",
		Description: "Similarity search over the curriculum corpus, optionally filtered by chunk type",
		Annotations: readOnly,
	}, s.handleSearch)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "smart_search",
		Description: "Classify a question (fees, profile, curriculum, semester) and search with the matching filter",
		Annotations: readOnly,
	}, s.handleSmartSearch)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "compare_programs",
		Description: "Compare several programs on fee, occupational profile or curriculum",
		Annotations: readOnly,
	}, s.handleCompare)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "status",
		Description: "Report the collection size, providers and last ingest run",
		Annotations: readOnly,
	}, s.handleStatus)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filter := domain.ChunkType(input.Type)
	if filter != "" && !filter.IsValid() {
		return nil, SearchOutput{}, fmt.Errorf("%w: unknown chunk type %q", domain.ErrInvalidInput, input.Type)
	}

	results, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{K: input.K, TypeFilter: filter})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(results), nil
}

// handleSmartSearch handles the smart_search tool invocation.
func (s *Server) handleSmartSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SmartSearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	smart, err := s.ports.Search.SmartSearch(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := toSearchOutput(smart.Results)
	output.Class = string(smart.Classification.Class)
	output.Keyword = smart.Classification.Keyword
	return nil, output, nil
}

// handleCompare handles the compare_programs tool invocation.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	cmp, err := s.ports.Search.Compare(ctx, input.Programs, input.Aspect)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	output := CompareOutput{
		Aspect:  cmp.Aspect,
		Summary: cmp.Summary,
		Matches: make([]ProgramMatchOutput, len(cmp.Matches)),
	}
	for i, m := range cmp.Matches {
		output.Matches[i] = ProgramMatchOutput{Program: m.Program, Found: m.Found}
		if m.Found {
			r := toResultOutput(&m.Result)
			output.Matches[i].Result = &r
		}
	}
	return nil, output, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.ports.Search.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, toStatusOutput(status), nil
}

func toSearchOutput(results []domain.SearchResult) SearchOutput {
	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = toResultOutput(&results[i])
	}
	return output
}

func toResultOutput(r *domain.SearchResult) SearchResultOutput {
	return SearchResultOutput{
		Rank:           r.Rank,
		Program:        r.ProgramName,
		Type:           r.ChunkType.String(),
		Similarity:     r.Similarity,
		ChunkingSource: r.ChunkingSource,
		FormattedFee:   r.FormattedFee,
		Semester:       r.Semester,
		Credits:        r.Credits,
		Content:        r.Chunk.Content,
	}
}

func toStatusOutput(status *domain.Status) StatusOutput {
	out := StatusOutput{
		Collection:   status.Collection,
		ChunkCount:   status.ChunkCount,
		Embedding:    status.Embedding,
		EmbeddingOK:  status.EmbeddingOK,
		LLM:          status.LLM,
		LLMOK:        status.LLMOK,
		ChunkingMode: status.ChunkingMode.String(),
	}
	if status.LastRun != nil {
		out.LastRun = status.LastRun.StartedAt.UTC().Format(time.RFC3339)
	}
	return out
}
