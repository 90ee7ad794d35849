// Package list renders search results as a scrollable, selectable list.
package list

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curricula/internal/core/domain"
)

const (
	// rowHeight is the number of lines a result occupies, spacer included.
	rowHeight = 3

	barCells = 8
)

// Results is a cursor over a slice of search results.
type Results struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	items  []domain.SearchResult
	cursor int
	offset int

	width  int
	height int
}

// New creates an empty list.
func New(s *styles.Styles, km *keymap.KeyMap) *Results {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Results{styles: s, keys: km, width: 80, height: 12}
}

// Update moves the cursor on navigation keys.
func (r *Results) Update(msg tea.Msg) (*Results, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch {
	case key.Matches(km, r.keys.Up):
		r.Up()
	case key.Matches(km, r.keys.Down):
		r.Down()
	case key.Matches(km, r.keys.Top):
		r.Select(0)
	case key.Matches(km, r.keys.Bottom):
		r.Select(len(r.items) - 1)
	}
	return r, nil
}

// View renders the visible window of results.
func (r *Results) View() string {
	if len(r.items) == 0 {
		return r.styles.Muted.Render("No results")
	}

	var b strings.Builder
	b.WriteString(r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.items))))
	b.WriteString("\n\n")

	end := min(r.offset+r.visible(), len(r.items))
	for i := r.offset; i < end; i++ {
		b.WriteString(r.row(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(r.items) {
		b.WriteString("\n" + r.styles.Muted.Render(fmt.Sprintf("  … %d more", len(r.items)-end)))
	}
	return b.String()
}

// row renders result i as a header line and a fee or preview line.
func (r *Results) row(i int) string {
	res := &r.items[i]

	name := res.ProgramName
	if name == "" {
		name = "(unknown program)"
	}
	if res.Semester != "" {
		name += " · Semestre " + res.Semester
	}
	// cursor, bar, score, badge and padding
	name = truncate(name, max(r.width-36, 10))

	score := fmt.Sprintf("%s %5.1f%%", relevanceBar(res.Similarity, barCells), res.RelevanceScore)
	var head string
	if i == r.cursor {
		head = r.styles.Selected.Render(fmt.Sprintf("> %s %-12s %s", score, "["+styles.TypeLabel(res.ChunkType)+"]", name))
	} else {
		head = "  " + r.styles.Muted.Render(score) + " " + r.styles.TypeBadge(res.ChunkType) +
			strings.Repeat(" ", max(12-len(styles.TypeLabel(res.ChunkType))-2, 0)+1) +
			r.styles.Normal.Render(name)
	}

	if res.FormattedFee != "" {
		return head + "\n    " + r.styles.Fee.Render(res.FormattedFee) + "\n"
	}
	preview := truncate(strings.Join(strings.Fields(res.Chunk.Content), " "), max(r.width-6, 20))
	return head + "\n" + r.styles.Muted.Render("    "+preview) + "\n"
}

// relevanceBar draws similarity in [0,1] as a bar of n cells.
func relevanceBar(similarity float64, n int) string {
	filled := int(math.Round(similarity * float64(n)))
	filled = max(0, min(filled, n))
	return strings.Repeat("█", filled) + strings.Repeat("░", n-filled)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func (r *Results) visible() int {
	return max((r.height-2)/rowHeight, 1)
}

// scroll keeps the cursor inside the visible window.
func (r *Results) scroll() {
	v := r.visible()
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+v {
		r.offset = r.cursor - v + 1
	}
	r.offset = max(0, min(r.offset, max(len(r.items)-v, 0)))
}

// SetResults replaces the items and moves the cursor to the top.
func (r *Results) SetResults(items []domain.SearchResult) {
	r.items = items
	r.cursor = 0
	r.offset = 0
}

// Items returns the current results.
func (r *Results) Items() []domain.SearchResult {
	return r.items
}

// Cursor returns the index of the highlighted result.
func (r *Results) Cursor() int {
	return r.cursor
}

// Offset returns the index of the first visible result.
func (r *Results) Offset() int {
	return r.offset
}

// Select moves the cursor to i. Out of range indexes are ignored.
func (r *Results) Select(i int) {
	if i < 0 || i >= len(r.items) {
		return
	}
	r.cursor = i
	r.scroll()
}

// Selected returns the highlighted result, or nil when the list is empty.
func (r *Results) Selected() *domain.SearchResult {
	if r.cursor < 0 || r.cursor >= len(r.items) {
		return nil
	}
	return &r.items[r.cursor]
}

// Up moves the cursor one result up.
func (r *Results) Up() {
	r.Select(r.cursor - 1)
}

// Down moves the cursor one result down.
func (r *Results) Down() {
	r.Select(r.cursor + 1)
}

// SetSize sets the area available to the list.
func (r *Results) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.scroll()
}

// Len returns the number of results.
func (r *Results) Len() int {
	return len(r.items)
}
