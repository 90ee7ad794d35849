// Package details shows one search result: its ranking, the typed fields
// pulled from metadata, every metadata pair and the chunk text, in a
// scrollable viewport.
package details

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curricula/internal/core/domain"
)

const (
	// title, rule, blank line, position line and help around the viewport
	chrome = 6

	maxMetaValue = 60
)

type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	vp     viewport.Model

	result *domain.SearchResult
	err    error

	width, height int
	ready         bool
}

func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{styles: s, keys: km, vp: viewport.New(80, 1)}
	v.resize(80, 24)
	return v
}

// SetResult replaces the shown result and scrolls to the top.
func (v *View) SetResult(r domain.SearchResult) {
	v.result = &r
	v.err = nil
	v.vp.SetContent(v.render())
	v.vp.GotoTop()
}

func (v *View) SetError(err error) { v.err = err }

func (v *View) Init() tea.Cmd { return nil }

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.ErrorOccurred:
		v.err = msg.Err
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Back):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
	case key.Matches(msg, v.keys.Up):
		v.vp.SetYOffset(v.vp.YOffset - 1)
	case key.Matches(msg, v.keys.Down):
		v.vp.SetYOffset(v.vp.YOffset + 1)
	case key.Matches(msg, v.keys.Top):
		v.vp.GotoTop()
	case key.Matches(msg, v.keys.Bottom):
		v.vp.GotoBottom()
	}
	return nil
}

type row struct {
	label, value string
	fee          bool
}

// fields lists the typed attributes of r that are set.
func fields(r *domain.SearchResult) []row {
	rows := []row{
		{label: "Program", value: r.ProgramName},
		{label: "Type", value: r.ChunkType.String()},
		{label: "Rank", value: strconv.Itoa(r.Rank)},
		{label: "Relevance", value: fmt.Sprintf("%.1f%% (distance %.4f)", r.RelevanceScore, r.Distance)},
		{label: "Source", value: r.ChunkingSource},
	}
	if r.FormattedFee != "" {
		rows = append(rows, row{label: "Fee", value: r.FormattedFee, fee: true})
	}
	if r.Semester != "" {
		rows = append(rows, row{
			label: "Semester",
			value: fmt.Sprintf("%s (%d subjects, %d credits)", r.Semester, r.Subjects, r.Credits),
		})
	}
	return rows
}

// clip collapses whitespace and cuts s to n runes.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func (v *View) render() string {
	st := v.styles
	r := v.result
	var lines []string

	for _, f := range fields(r) {
		value := st.Normal.Render(" " + f.value)
		if f.fee {
			value = st.Fee.Render(" " + f.value)
		}
		lines = append(lines, st.Subtitle.Render(fmt.Sprintf("%-12s", f.label+":"))+value)
	}

	if len(r.Chunk.Metadata) > 0 {
		lines = append(lines, "", st.Subtitle.Render("Metadata:"))
		names := make([]string, 0, len(r.Chunk.Metadata))
		for k := range r.Chunk.Metadata {
			names = append(names, k)
		}
		slices.Sort(names)
		for _, k := range names {
			lines = append(lines, st.Muted.Render("  "+k+":")+st.Normal.Render(" "+clip(r.Chunk.String(k), maxMetaValue)))
		}
	}

	lines = append(lines, "", st.Subtitle.Render("Content:"))
	for _, l := range strings.Split(r.Chunk.Content, "\n") {
		lines = append(lines, st.Normal.Render("│ "+l))
	}
	return strings.Join(lines, "\n")
}

func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Result Details"))
	b.WriteString("\n" + strings.Repeat("─", max(0, min(v.width-4, 60))) + "\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.result == nil:
		b.WriteString(v.styles.Muted.Render("No result selected"))
		b.WriteString("\n")
	default:
		b.WriteString(v.vp.View())
		b.WriteString("\n")
		if total := v.vp.TotalLineCount(); total > v.vp.Height {
			first := v.vp.YOffset + 1
			last := min(v.vp.YOffset+v.vp.Height, total)
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]", first, last, total)))
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.Hints(v.keys.DetailsHelp())))
	return b.String()
}

func (v *View) resize(width, height int) {
	v.width, v.height = width, height
	v.vp.Width = width
	v.vp.Height = max(1, height-chrome)
}

func (v *View) SetDimensions(width, height int) {
	v.resize(width, height)
	v.ready = true
	// keep the offset valid for the new height
	v.vp.SetYOffset(v.vp.YOffset)
}

// Result is nil until a result has been opened.
func (v *View) Result() *domain.SearchResult { return v.result }

// ScrollOffset is the index of the first visible line.
func (v *View) ScrollOffset() int { return v.vp.YOffset }

// maxOffset is the offset at which the last line is at the bottom.
func (v *View) maxOffset() int {
	return max(0, v.vp.TotalLineCount()-v.vp.Height)
}

func (v *View) Err() error { return v.err }
