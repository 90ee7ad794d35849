package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/views/details"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/views/overview"
	"github.com/custodia-labs/curricula/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/curricula/internal/core/domain"
)

// App routes messages to the active screen. It implements tea.Model.
type App struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	menuView     *menu.View
	searchView   *search.View
	detailsView  *details.View
	overviewView *overview.View

	screen messages.ViewType
	err    error
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp builds every screen up front; switching screens never loses
// state except where Reset is called.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	st := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		styles:       st,
		keys:         km,
		menuView:     menu.NewView(st, km),
		searchView:   search.NewView(st, km, ports.Search),
		detailsView:  details.NewView(st, km),
		overviewView: overview.NewView(st, km, ports.Search, ports.Settings),
		screen:       messages.ViewMenu,
	}, nil
}

// WithContext sets the context passed to service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.searchView.WithContext(ctx)
	a.overviewView.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("curricula")
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		// q is typed into the query box, so only ctrl+c quits from anywhere.
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)
	case messages.ViewChanged:
		return a, a.switchTo(msg.View)
	case messages.ResultSelected:
		a.detailsView.SetResult(msg.Result)
		a.screen = messages.ViewDetails
		return a, nil
	case messages.StatusLoaded:
		var cmd tea.Cmd
		a.overviewView, cmd = a.overviewView.Update(msg)
		return a, cmd
	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)
	case messages.Quit:
		return a, tea.Quit
	}

	// SearchCompleted, cursor blink and spinner ticks
	return a, a.toSearch(msg)
}

func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		cmd = a.toSearch(msg)
	case messages.ViewDetails:
		a.detailsView, cmd = a.detailsView.Update(msg)
	case messages.ViewStatus:
		a.overviewView, cmd = a.overviewView.Update(msg)
	case messages.ViewHelp:
		if key.Matches(msg, a.keys.Back) {
			a.screen = messages.ViewMenu
		}
	}
	return cmd
}

// forward hands msg to the screens that show errors inline.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDetails:
		a.detailsView, cmd = a.detailsView.Update(msg)
	default:
	}
	return cmd
}

// toSearch updates the search view; results arriving after the user has
// moved on are still stored for when they return.
func (a *App) toSearch(msg tea.Msg) tea.Cmd {
	_, isResult := msg.(messages.SearchCompleted)
	if !isResult && a.screen != messages.ViewSearch {
		return nil
	}
	var cmd tea.Cmd
	a.searchView, cmd = a.searchView.Update(msg)
	a.err = a.searchView.Err()
	return cmd
}

func (a *App) switchTo(to messages.ViewType) tea.Cmd {
	from := a.screen
	a.screen = to
	switch to {
	case messages.ViewSearch:
		// Returning from a result keeps the result list.
		if from != messages.ViewDetails {
			a.searchView.Reset()
		}
		return a.searchView.Init()
	case messages.ViewStatus:
		return a.overviewView.Init()
	default:
		return nil
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.screen {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDetails:
		return a.detailsView.View()
	case messages.ViewStatus:
		return a.overviewView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// smartWords lists the wording smart search reacts to.
var smartWords = [][2]string{
	{"costo, precio, matrícula...", "fees"},
	{"perfil, laboral, campo...", "occupational profile"},
	{"materia, semestre, plan...", "curriculum"},
	{"primer, segundo, tercer...", "single semesters"},
}

// viewHelp lists every binding and the smart search vocabulary.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keys.FullHelp() {
		for _, kb := range group {
			fmt.Fprintf(&b, "  %-8s %s\n", kb.Help().Key, a.styles.Muted.Render(kb.Help().Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Subtitle.Render("Smart search picks the chunk type from the wording:"))
	b.WriteString("\n")
	for _, w := range smartWords {
		fmt.Fprintf(&b, "  %-30s %s\n", w[0], w[1])
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render(keymap.Hints([]key.Binding{a.keys.Back})))
	return b.String()
}

func (a *App) CurrentView() messages.ViewType {
	return a.screen
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// SelectedResult returns the result shown in the details view, or nil.
func (a *App) SelectedResult() *domain.SearchResult {
	return a.detailsView.Result()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.detailsView.SetDimensions(width, height)
	a.overviewView.SetDimensions(width, height)
}
