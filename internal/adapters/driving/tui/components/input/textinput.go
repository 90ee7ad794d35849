// Package input provides the query box of the search view.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
)

// historySize bounds the number of remembered queries.
const historySize = 50

// QueryBox is a text input that remembers submitted queries.
// The prompt reads "Ask" in smart mode and "Search" in plain mode.
type QueryBox struct {
	field  textinput.Model
	styles *styles.Styles
	smart  bool

	history []string
	// recall indexes history while browsing; len(history) means "not browsing".
	recall int
	draft  string
}

// New creates a focused, empty query box in smart mode.
func New(s *styles.Styles) *QueryBox {
	if s == nil {
		s = styles.DefaultStyles()
	}

	field := textinput.New()
	field.Placeholder = "cuánto cuesta, perfil ocupacional, segundo semestre..."
	field.CharLimit = 256
	field.Width = 50
	field.Focus()

	return &QueryBox{field: field, styles: s, smart: true}
}

// Init starts the cursor blink.
func (q *QueryBox) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the text field.
func (q *QueryBox) Update(msg tea.Msg) (*QueryBox, tea.Cmd) {
	var cmd tea.Cmd
	q.field, cmd = q.field.Update(msg)
	return q, cmd
}

// View renders the prompt and the field.
func (q *QueryBox) View() string {
	prompt := "Search "
	if q.smart {
		prompt = "Ask "
	}
	//nolint:misspell // lipgloss.Center is the library's spelling
	return lipgloss.JoinHorizontal(lipgloss.Center,
		q.styles.Title.Render(prompt),
		q.styles.InputField.Render(q.field.View()),
	)
}

// Remember appends query to the history, skipping blanks and an
// immediate repeat, and stops any browsing.
func (q *QueryBox) Remember(query string) {
	if query != "" && (len(q.history) == 0 || q.history[len(q.history)-1] != query) {
		q.history = append(q.history, query)
		if len(q.history) > historySize {
			q.history = q.history[len(q.history)-historySize:]
		}
	}
	q.recall = len(q.history)
	q.draft = ""
}

// Prev replaces the text with the previous remembered query.
// The text typed before browsing is kept and restored by Next.
func (q *QueryBox) Prev() {
	if q.recall == 0 {
		return
	}
	if q.recall == len(q.history) {
		q.draft = q.field.Value()
	}
	q.recall--
	q.set(q.history[q.recall])
}

// Next moves toward newer queries and finally back to the draft.
func (q *QueryBox) Next() {
	if q.recall >= len(q.history) {
		return
	}
	q.recall++
	if q.recall == len(q.history) {
		q.set(q.draft)
		return
	}
	q.set(q.history[q.recall])
}

func (q *QueryBox) set(value string) {
	q.field.SetValue(value)
	q.field.CursorEnd()
}

// History returns the remembered queries, oldest first.
func (q *QueryBox) History() []string {
	return q.history
}

// Value returns the current text.
func (q *QueryBox) Value() string {
	return q.field.Value()
}

// SetValue replaces the current text.
func (q *QueryBox) SetValue(value string) {
	q.set(value)
}

// Focus focuses the field.
func (q *QueryBox) Focus() tea.Cmd {
	return q.field.Focus()
}

// Blur removes focus from the field.
func (q *QueryBox) Blur() {
	q.field.Blur()
}

// Focused reports whether the field has focus.
func (q *QueryBox) Focused() bool {
	return q.field.Focused()
}

// SetWidth fits the field into width columns next to the prompt.
func (q *QueryBox) SetWidth(width int) {
	q.field.Width = max(width-12, 20)
}

// SetSmart switches the prompt between smart and plain search.
func (q *QueryBox) SetSmart(smart bool) {
	q.smart = smart
}

// Smart reports whether the box is in smart mode.
func (q *QueryBox) Smart() bool {
	return q.smart
}
