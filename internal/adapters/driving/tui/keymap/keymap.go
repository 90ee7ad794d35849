// Package keymap defines the key bindings of the TUI and the help
// lines shown for each view.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding. Views match against it with key.Matches
// instead of comparing raw key strings.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Enter submits a query in the search box and opens the selected
	// result or menu item everywhere else.
	Enter key.Binding

	ToggleSmart key.Binding
	NewSearch   key.Binding
	Refresh     key.Binding

	// History recalls earlier queries while typing.
	HistoryPrev key.Binding
	HistoryNext key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),

		ToggleSmart: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "smart/plain")),
		NewSearch:   key.NewBinding(key.WithKeys("n", "/"), key.WithHelp("n", "new search")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		HistoryPrev: key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous query")),
		HistoryNext: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next query")),
	}
}

// MenuHelp lists the bindings of the main menu.
func (k *KeyMap) MenuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Quit}
}

// InputHelp lists the bindings available while typing a query.
func (k *KeyMap) InputHelp() []key.Binding {
	submit := k.Enter
	submit.SetHelp("enter", "search")
	return []key.Binding{submit, k.ToggleSmart, k.HistoryPrev, k.Back}
}

// ResultsHelp lists the bindings of the result list.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Enter, k.NewSearch, k.ToggleSmart, k.Back}
}

// DetailsHelp lists the bindings of the result details view.
func (k *KeyMap) DetailsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Back}
}

// StatusHelp lists the bindings of the status view.
func (k *KeyMap) StatusHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Back}
}

// FullHelp groups every binding for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Enter, k.Back, k.NewSearch},
		{k.ToggleSmart, k.HistoryPrev, k.HistoryNext, k.Refresh},
		{k.Help, k.Quit},
	}
}

// Hints formats the enabled bindings as "enter open • esc back".
func Hints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " • ")
}
