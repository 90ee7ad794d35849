// Package tui is the interactive terminal front end: a menu, a search
// screen with smart/plain toggle, a chunk viewer and a corpus status page,
// all driven by bubbletea.
package tui

import (
	"errors"

	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

var (
	ErrInvalidPorts         = errors.New("tui: no ports given")
	ErrMissingSearchService = errors.New("tui: search service is required")
)

// Ports are the services behind the screens. Settings is optional and
// only fills in the provider section of the status page.
type Ports struct {
	Search   driving.SearchService
	Settings driving.SettingsService
}

func NewPorts(search driving.SearchService, settings driving.SettingsService) *Ports {
	return &Ports{Search: search, Settings: settings}
}

// Validate fails for nil ports or a missing search service.
func (p *Ports) Validate() error {
	switch {
	case p == nil:
		return ErrInvalidPorts
	case p.Search == nil:
		return ErrMissingSearchService
	}
	return nil
}
