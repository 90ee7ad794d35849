package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for curricula resources.
	uriScheme = "curricula://"

	// runsLimit caps the run history resource.
	runsLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.srv.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Collection size, providers and last ingest run",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.srv.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent ingest runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Full text of one program, found by name.
	s.srv.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "programs/{name}",
		Name:        "program",
		Description: "Complete description of a program (fee, profile and curriculum)",
		MIMEType:    "text/plain",
	}, s.handleProgramResource)
}

// handleStatusResource returns the corpus status as JSON.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Search.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}
	return jsonResource(req.Params.URI, toStatusOutput(status))
}

// handleRunsResource returns the run history, empty when no ingest port is set.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type runInfo struct {
		ID         string `json:"id"`
		Source     string `json:"source"`
		Mode       string `json:"mode"`
		Skipped    bool   `json:"skipped"`
		Chunks     int    `json:"chunks"`
		Programs   int    `json:"programs"`
		StartedAt  string `json:"started_at"`
		DurationMS int64  `json:"duration_ms"`
	}

	infos := []runInfo{}
	if s.ports.Ingest != nil {
		runs, err := s.ports.Ingest.Runs(ctx, runsLimit)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		for _, r := range runs {
			infos = append(infos, runInfo{
				ID:         r.ID,
				Source:     r.Source,
				Mode:       r.Mode.String(),
				Skipped:    r.Skipped,
				Chunks:     r.Stats.ChunksCreated,
				Programs:   r.Stats.ProgramsProcessed,
				StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
				DurationMS: r.Duration.Milliseconds(),
			})
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleProgramResource returns the program_complete chunk closest to the
// requested name.
func (s *Server) handleProgramResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractProgramName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	results, err := s.ports.Search.Search(ctx, name, domain.SearchOptions{K: 1, TypeFilter: domain.ChunkTypeProgramComplete})
	if err != nil {
		return nil, fmt.Errorf("finding program: %w", err)
	}
	if len(results) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     results[0].Chunk.Content,
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProgramName extracts the program name from a URI like
// curricula://programs/{name}. Names are percent-encoded by clients.
func extractProgramName(uri string) string {
	const prefix = uriScheme + "programs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}
