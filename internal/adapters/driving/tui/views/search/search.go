// Package search is the query screen of the TUI: a query box, the
// ranked results and a status bar.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

// ErrNoSearchService is reported when a query is submitted without a
// search service wired in.
var ErrNoSearchService = errors.New("no search service configured")

// View owns the query box, the result list and the status bar. It is
// either typing (the box has focus) or browsing results.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	box     *input.QueryBox
	results *list.Results
	bar     *status.Bar

	search driving.SearchService
	ctx    context.Context

	width, height int
	ready         bool
	typing        bool
	smart         bool
	err           error
	class         *domain.Classification
}

// NewView creates the view in typing mode with smart search on.
func NewView(s *styles.Styles, km *keymap.KeyMap, search driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keys:    km,
		box:     input.New(s),
		results: list.New(s, km),
		bar:     status.NewBar(s, km),
		search:  search,
		ctx:     context.Background(),
		width:   80,
		height:  24,
		typing:  true,
		smart:   true,
	}
}

// WithContext sets the context searches run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink of the query box.
func (v *View) Init() tea.Cmd {
	return v.box.Init()
}

// Update handles a message.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.bar, cmd = v.bar.Update(msg)
		return v, cmd
	case messages.SearchCompleted:
		v.complete(msg)
		return v, nil
	case messages.ErrorOccurred:
		v.err = msg.Err
		v.bar.Fail(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.box, cmd = v.box.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key.Matches(msg, v.keys.ToggleSmart):
		v.SetSmart(!v.smart)
		return v, nil
	}

	if v.typing {
		return v.handleTyping(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Enter):
		r := v.results.Selected()
		if r == nil {
			return v, nil
		}
		selected := *r
		return v, func() tea.Msg { return messages.ResultSelected{Result: selected} }
	case key.Matches(msg, v.keys.NewSearch):
		v.typing = true
		v.box.SetValue("")
		v.bar.Typing()
		return v, v.box.Focus()
	}

	var cmd tea.Cmd
	v.results, cmd = v.results.Update(msg)
	return v, cmd
}

func (v *View) handleTyping(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Enter):
		query := v.box.Value()
		if query == "" {
			return v, nil
		}
		v.box.Remember(query)
		v.typing = false
		v.box.Blur()
		return v, tea.Batch(v.bar.Searching(), v.performSearch(query))
	case key.Matches(msg, v.keys.HistoryPrev):
		v.box.Prev()
		return v, nil
	case key.Matches(msg, v.keys.HistoryNext):
		v.box.Next()
		return v, nil
	}

	var cmd tea.Cmd
	v.box, cmd = v.box.Update(msg)
	return v, cmd
}

// performSearch runs a smart or plain search, depending on the mode at
// submit time.
func (v *View) performSearch(query string) tea.Cmd {
	smart := v.smart
	svc := v.search
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		if !smart {
			results, err := svc.Search(ctx, query, domain.SearchOptions{})
			return messages.SearchCompleted{Query: query, Results: results, Err: err}
		}
		res, err := svc.SmartSearch(ctx, query)
		if err != nil {
			return messages.SearchCompleted{Query: query, Err: err}
		}
		class := res.Classification
		return messages.SearchCompleted{Query: query, Results: res.Results, Classification: &class}
	}
}

func (v *View) complete(msg messages.SearchCompleted) {
	v.typing = false
	v.box.Blur()
	if msg.Err != nil {
		v.err = msg.Err
		v.bar.Fail(msg.Err)
		return
	}
	v.err = nil
	v.class = msg.Classification
	v.results.SetResults(msg.Results)
	v.bar.Done(len(msg.Results), classLabel(msg.Classification))
}

// classLabel renders a classification as "fee (costo)".
func classLabel(c *domain.Classification) string {
	switch {
	case c == nil:
		return ""
	case c.Keyword == "":
		return string(c.Class)
	default:
		return fmt.Sprintf("%s (%s)", c.Class, c.Keyword)
	}
}

// View renders the screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	mode := "smart search"
	if !v.smart {
		mode = "plain search"
	}
	parts := []string{
		v.styles.Title.Render("Curricula") + "  " + v.styles.Muted.Render(mode),
		"",
		v.box.View(),
		"",
	}
	if v.err != nil {
		parts = append(parts, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	parts = append(parts, v.results.View(), "", v.bar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetDimensions resizes the view and its components.
func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.ready = true
	v.box.SetWidth(width)
	// header, query box, error line and status bar take ten rows
	v.results.SetSize(width, height-10)
	v.bar.SetWidth(width)
}

// SetSmart switches between smart and plain search.
func (v *View) SetSmart(smart bool) {
	v.smart = smart
	v.box.SetSmart(smart)
	v.bar.SetSmart(smart)
}

// Smart reports whether smart search is on.
func (v *View) Smart() bool { return v.smart }

// Width returns the current width.
func (v *View) Width() int { return v.width }

// Height returns the current height.
func (v *View) Height() int { return v.height }

// Ready reports whether the view has received its size.
func (v *View) Ready() bool { return v.ready }

// Query returns the text in the query box.
func (v *View) Query() string { return v.box.Value() }

// SetQuery replaces the text in the query box.
func (v *View) SetQuery(query string) { v.box.SetValue(query) }

// History returns the submitted queries, oldest first.
func (v *View) History() []string { return v.box.History() }

// Results returns the results of the last search.
func (v *View) Results() []domain.SearchResult { return v.results.Items() }

// Classification returns the classification of the last smart search.
func (v *View) Classification() *domain.Classification { return v.class }

// SelectedIndex returns the cursor position in the result list.
func (v *View) SelectedIndex() int { return v.results.Cursor() }

// SelectedResult returns the result under the cursor, or nil.
func (v *View) SelectedResult() *domain.SearchResult { return v.results.Selected() }

// Phase returns the phase shown by the status bar.
func (v *View) Phase() status.Phase { return v.bar.Phase() }

// Err returns the last error.
func (v *View) Err() error { return v.err }

// ClearError forgets the last error.
func (v *View) ClearError() {
	v.err = nil
	v.bar.Typing()
}

// Reset empties the query and the results and focuses the query box.
// The search mode and the history are kept.
func (v *View) Reset() {
	v.typing = true
	v.box.SetValue("")
	v.box.Focus()
	v.results.SetResults(nil)
	v.class = nil
	v.err = nil
	v.bar.Typing()
}

// InputFocused reports whether the view is in typing mode.
func (v *View) InputFocused() bool { return v.typing }
