package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/curricula/internal/logger"
)

// Version is reported to clients in the initialize handshake.
const Version = "0.1.0"

// shutdownTimeout bounds how long RunHTTP waits for open sessions.
const shutdownTimeout = 5 * time.Second

// instructions tell the client which tool fits which question.
const instructions = `Answers questions about university programs: tuition fees, occupational
profiles, curricula and individual semesters.

Use smart_search for free-form questions; it picks the chunk type from the
wording. Use search with a type when you already know what you need, and
compare_programs to put several programs side by side. Content is in Spanish.`

// Server exposes the search service as MCP tools and the corpus status,
// run history and program texts as resources.
type Server struct {
	ports *Ports
	srv   *mcp.Server
}

// NewServer registers the tools and resources. Ports.Search is required.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingSearchService
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		srv: mcp.NewServer(
			&mcp.Implementation{Name: "curricula", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Serve runs one session over t until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	return s.srv.Run(ctx, t)
}

// Run serves a single client over stdin and stdout.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("mcp: serving on stdio")
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Handler returns a streamable HTTP handler. Every request shares this
// server, so sessions see the same tools and resources.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.srv }, nil)
}

// RunHTTP listens on addr until ctx is cancelled, then shuts down.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("mcp: serving on http://%s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http: %w", err)
	}
	return <-stopped
}
