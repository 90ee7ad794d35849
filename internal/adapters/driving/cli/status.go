package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

var runsLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the corpus and provider status",
	RunE:  runStatus,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingest runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "number of runs to show (0 = all)")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runsCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errNoSearch
	}

	status, err := searchService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	collection := status.Collection
	if collection == "" {
		collection = "(no vector store)"
	}
	cmd.Printf("Collection: %s (%d chunks)\n", collection, status.ChunkCount)
	cmd.Printf("Embedding:  %s\n", providerState(status.Embedding, status.EmbeddingOK))
	cmd.Printf("LLM:        %s\n", providerState(status.LLM, status.LLMOK))
	cmd.Printf("Chunking:   %s, %d workers\n", status.ChunkingMode.Description(), status.Workers)

	if status.LastRun == nil {
		cmd.Println("Last run:   never")
		return nil
	}
	cmd.Printf("Last run:   %s\n", formatRun(*status.LastRun))
	return nil
}

func providerState(model string, ok bool) string {
	switch {
	case model == "":
		return "not configured"
	case ok:
		return model + " (reachable)"
	default:
		return model + " (unreachable)"
	}
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errNoIngest
	}

	runs, err := ingestService.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No ingest runs recorded.")
		return nil
	}
	for _, run := range runs {
		cmd.Printf("  %s\n", formatRun(run))
	}
	return nil
}

func formatRun(run domain.IngestRun) string {
	when := run.StartedAt.Local().Format(time.DateTime)
	if run.Skipped {
		return fmt.Sprintf("%s  %s  skipped", when, run.Source)
	}
	return fmt.Sprintf("%s  %s  %s  %d chunks from %d programs in %s",
		when, run.Source, run.Mode, run.Stats.ChunksCreated, run.Stats.ProgramsProcessed,
		run.Duration.Round(time.Millisecond))
}
