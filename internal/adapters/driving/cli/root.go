// Package cli implements the curricula command line.
// Commands register themselves on rootCmd in init and reach the core
// through the services injected with SetServices.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
	"github.com/custodia-labs/curricula/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// ProviderCheck pings the configured embedding and LLM providers.
// A nil error means the provider answered or is not configured.
type ProviderCheck func(ctx context.Context, settings *domain.AppSettings) (embedding, llm error)

// Services are the core ports the commands drive.
type Services struct {
	Ingest   driving.IngestService
	Search   driving.SearchService
	Settings driving.SettingsService

	// Check backs "settings check". Optional.
	Check ProviderCheck
}

var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	settingsService driving.SettingsService
	providerCheck   ProviderCheck
)

var (
	errNoIngest   = errors.New("ingest service not configured")
	errNoSearch   = errors.New("search service not configured")
	errNoSettings = errors.New("settings service not configured")
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "curricula",
	Short: "Curriculum search corpus builder",
	Long: `curricula turns the university curriculum document into a searchable
vector corpus and answers questions against it.

Programs are split into typed chunks (fees, occupational profile,
curriculum summary, one chunk per semester) by a rule-based builder,
optionally enriched by an LLM, embedded and stored in a local collection.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
}

// SetServices injects the core services used by every command.
func SetServices(s Services) {
	ingestService = s.Ingest
	searchService = s.Search
	settingsService = s.Settings
	providerCheck = s.Check
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// documentPath returns the first positional argument, or the configured
// document path when none was given.
func documentPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if settingsService == nil {
		return "", errNoSettings
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Document.Path, nil
}

// parseMode validates a --mode flag value. Empty means "use the configured mode".
func parseMode(raw string) (domain.ChunkingMode, error) {
	if raw == "" {
		return "", nil
	}
	mode := domain.ChunkingMode(raw)
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q (want auto, structural, semantic or hybrid)", domain.ErrInvalidMode, raw)
	}
	return mode, nil
}
