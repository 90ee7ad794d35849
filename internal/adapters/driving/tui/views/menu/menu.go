// Package menu is the start screen of the TUI.
package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
)

// Entry is one line of the menu. An entry without a target quits.
type Entry struct {
	Label  string
	Hint   string
	Target messages.ViewType
	Quits  bool
}

// Entries is the menu content, in display order.
var Entries = []Entry{
	{Label: "Search", Hint: "ask about fees, profiles and semesters", Target: messages.ViewSearch},
	{Label: "Status", Hint: "collection size, providers and last ingest", Target: messages.ViewStatus},
	{Label: "Help", Hint: "keys and smart search keywords", Target: messages.ViewHelp},
	{Label: "Quit", Quits: true},
}

// View lists Entries with a cursor. Digits 1-9 pick an entry directly.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	cursor int
	width  int
	height int
	ready  bool
}

// NewView creates the menu with the cursor on the first entry.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keys: km, width: 80, height: 24}
}

// Init implements the view contract; the menu needs no startup work.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or activates an entry.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			// wraps to the last entry
			v.cursor = (v.cursor + len(Entries) - 1) % len(Entries)
		case key.Matches(msg, v.keys.Down):
			v.cursor = (v.cursor + 1) % len(Entries)
		case key.Matches(msg, v.keys.Enter):
			return v, activate(Entries[v.cursor])
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		default:
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(Entries) {
				v.cursor = n - 1
				return v, activate(Entries[v.cursor])
			}
		}
	}
	return v, nil
}

func activate(e Entry) tea.Cmd {
	if e.Quits {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: e.Target}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Curricula"))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render("programs, fees and curricula"))
	b.WriteString("\n\n")

	for i, e := range Entries {
		label := fmt.Sprintf("%d  %-8s", i+1, e.Label)
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render("› " + label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		if e.Hint != "" {
			b.WriteString("  " + v.styles.Muted.Render(e.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.Hints(v.keys.MenuHelp())))
	return b.String()
}

// SetDimensions records the terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Cursor returns the index of the highlighted entry.
func (v *View) Cursor() int {
	return v.cursor
}
