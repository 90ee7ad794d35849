// Package mcp exposes the curriculum corpus to AI assistants over the
// Model Context Protocol: read-only search, smart search and compare tools
// plus status and program resources.
package mcp

import (
	"errors"

	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

var ErrMissingSearchService = errors.New("mcp: search service is required")

// Ports are the services the server calls. Search backs every tool;
// Ingest only feeds the curricula://runs resource and may be nil.
type Ports struct {
	Search driving.SearchService
	Ingest driving.IngestService
}

func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
