// Package overview provides the corpus status view for the TUI.
package overview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

var ErrNoSearchService = errors.New("search service is required")

// View shows the collection, providers, chunking settings and last run.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	searchService   driving.SearchService
	settingsService driving.SettingsService
	ctx             context.Context

	status   *domain.Status
	settings *domain.AppSettings
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a new overview view. settingsService may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, search driving.SearchService, settings driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:          s,
		keys:            km,
		searchService:   search,
		settingsService: settings,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the status.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.StatusLoaded{Err: ErrNoSearchService}
		}
		status, err := v.searchService.Status(v.ctx)
		if err != nil {
			return messages.StatusLoaded{Err: err}
		}

		msg := messages.StatusLoaded{Status: status}
		if v.settingsService != nil {
			// Settings are informational; a read failure leaves them out.
			if settings, err := v.settingsService.Get(); err == nil {
				msg.Settings = settings
			}
		}
		return msg
	}
}

// Update handles messages for the overview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.StatusLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.status = msg.Status
			v.settings = msg.Settings
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Refresh):
			return v, v.Init()
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
	}
	return v, nil
}

// View renders the overview.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Status"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.status == nil:
		b.WriteString(v.styles.Muted.Render("No status loaded"))
	default:
		v.renderStatus(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(keymap.Hints(v.keys.StatusHelp())))
	return b.String()
}

func (v *View) renderStatus(b *strings.Builder) {
	s := v.status

	collection := s.Collection
	if collection == "" {
		collection = "(none)"
	}
	v.field(b, "Collection", fmt.Sprintf("%s, %d chunks", collection, s.ChunkCount))
	v.field(b, "Embedding", v.provider(s.Embedding, s.EmbeddingOK))
	v.field(b, "LLM", v.provider(s.LLM, s.LLMOK))
	v.field(b, "Chunking", fmt.Sprintf("%s, %d workers", s.ChunkingMode.Description(), s.Workers))

	if s.LastRun == nil {
		v.field(b, "Last run", v.styles.Muted.Render("never"))
	} else {
		run := s.LastRun
		summary := fmt.Sprintf("%s, %d chunks from %d programs",
			run.StartedAt.Local().Format(time.DateTime), run.Stats.ChunksCreated, run.Stats.ProgramsProcessed)
		if run.Skipped {
			summary = run.StartedAt.Local().Format(time.DateTime) + ", skipped"
		}
		v.field(b, "Last run", summary)
	}

	if v.settings != nil {
		b.WriteString("\n")
		v.field(b, "Document", v.settings.Document.Path)
		path := v.settings.Vector.Path
		if path == "" {
			path = "(in memory)"
		}
		v.field(b, "Vector path", path)
		v.field(b, "Default k", fmt.Sprintf("%d", v.settings.Search.DefaultK))
	}
}

func (v *View) field(b *strings.Builder, label, value string) {
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-12s", label+":")))
	b.WriteString(" ")
	b.WriteString(v.styles.Normal.Render(value))
	b.WriteString("\n")
}

func (v *View) provider(model string, ok bool) string {
	switch {
	case model == "":
		return v.styles.Muted.Render("not configured")
	case ok:
		return model + " " + v.styles.Success.Render("(reachable)")
	default:
		return model + " " + v.styles.Error.Render("(unreachable)")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Status returns the loaded status, or nil.
func (v *View) Status() *domain.Status {
	return v.status
}

// Loading reports whether a status request is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
