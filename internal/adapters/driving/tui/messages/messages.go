// Package messages holds the tea.Msg values passed between the TUI app
// and its views.
package messages

import (
	"github.com/custodia-labs/curricula/internal/core/domain"
)

// SearchCompleted is the answer to a query. Classification is set only
// for smart searches.
type SearchCompleted struct {
	Query          string
	Results        []domain.SearchResult
	Classification *domain.Classification
	Err            error
}

// ResultSelected opens a result in the details view.
type ResultSelected struct {
	Result domain.SearchResult
}

// StatusLoaded feeds the status view. Settings is nil when no settings
// service is wired.
type StatusLoaded struct {
	Status   *domain.Status
	Settings *domain.AppSettings
	Err      error
}

// ViewChanged asks the app to switch screens.
type ViewChanged struct {
	View ViewType
}

// ViewType names a screen.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewSearch
	ViewDetails
	ViewStatus
	ViewHelp
)

var viewNames = [...]string{
	ViewMenu:    "menu",
	ViewSearch:  "search",
	ViewDetails: "details",
	ViewStatus:  "status",
	ViewHelp:    "help",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ErrorOccurred reports a failure from a background command.
type ErrorOccurred struct {
	Err error
}

// Quit ends the program.
type Quit struct{}
