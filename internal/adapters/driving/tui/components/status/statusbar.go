// Package status renders the one-line bar at the bottom of the search view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
)

// Phase is the stage of the current query.
type Phase int

// Phases of a query, in the order they usually happen.
const (
	PhaseTyping Phase = iota
	PhaseSearching
	PhaseResults
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseTyping:
		return "typing"
	case PhaseSearching:
		return "searching"
	case PhaseResults:
		return "results"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Bar shows the query phase, the result summary, the search mode and
// the keys that apply right now.
type Bar struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	spinner spinner.Model

	phase Phase
	err   error
	count int
	class string
	smart bool
	width int
}

// NewBar creates a bar in the typing phase with smart search on.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles:  s,
		keys:    km,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(s.Subtitle)),
		smart:   true,
		width:   80,
	}
}

// Update advances the spinner while a search runs.
func (b *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || b.phase != PhaseSearching {
		return b, nil
	}
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return b, cmd
}

// View renders the bar across the full width.
func (b *Bar) View() string {
	left := strings.Join(b.segments(), b.styles.Muted.Render(" · "))
	right := b.hints()

	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) segments() []string {
	mode := "plain"
	if b.smart {
		mode = "smart"
	}
	segs := make([]string, 0, 3)

	switch b.phase {
	case PhaseSearching:
		segs = append(segs, b.spinner.View()+" "+b.styles.Normal.Render("Searching"))
	case PhaseResults:
		segs = append(segs, b.styles.Normal.Render(plural(b.count, "result")))
		if b.class != "" {
			segs = append(segs, b.styles.Subtitle.Render(b.class))
		}
	case PhaseFailed:
		text := "Error"
		if b.err != nil {
			text = "Error: " + b.err.Error()
		}
		segs = append(segs, b.styles.Error.Render(text))
	case PhaseTyping:
		segs = append(segs, b.styles.Muted.Render("Ready"))
	}
	return append(segs, b.styles.Muted.Render(mode))
}

func (b *Bar) hints() string {
	bindings := b.keys.InputHelp()
	if b.phase == PhaseResults && b.count > 0 {
		bindings = b.keys.ResultsHelp()
	}
	return b.styles.Help.Render(keymap.Hints(bindings))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Searching enters the searching phase and starts the spinner.
func (b *Bar) Searching() tea.Cmd {
	b.phase = PhaseSearching
	b.err = nil
	return b.spinner.Tick
}

// Done records a finished search. class may be empty for plain searches.
func (b *Bar) Done(count int, class string) {
	b.phase = PhaseResults
	b.err = nil
	b.count = count
	b.class = class
}

// Fail records a failed search.
func (b *Bar) Fail(err error) {
	b.phase = PhaseFailed
	b.err = err
}

// Typing returns to the typing phase and forgets the last search.
func (b *Bar) Typing() {
	b.phase = PhaseTyping
	b.err = nil
	b.count = 0
	b.class = ""
}

// SetSmart sets the search mode shown on the bar.
func (b *Bar) SetSmart(smart bool) {
	b.smart = smart
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Phase returns the current phase.
func (b *Bar) Phase() Phase { return b.phase }

// Count returns the result count of the last search.
func (b *Bar) Count() int { return b.count }

// Class returns the classification label of the last search.
func (b *Bar) Class() string { return b.class }

// Err returns the error of the last failed search.
func (b *Bar) Err() error { return b.err }
