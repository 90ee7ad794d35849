package cli

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/adapters/driving/tui"
	"github.com/custodia-labs/curricula/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the corpus interactively",
	Long: `Open the full-screen terminal interface.

The search screen classifies each question (fees, occupational profile,
curriculum, single semesters) and searches only the matching chunks.
Tab switches between smart and plain similarity search; up and down
recall earlier queries. Enter opens a result, esc goes back and ctrl+c
quits from anywhere.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	app, err := tui.NewApp(tui.NewPorts(searchService, settingsService))
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	// bubbletea restores the terminal on panic but the trace is lost
	// behind the alt screen.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("tui crashed: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("tui: %v", r)
		}
	}()

	prog := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
