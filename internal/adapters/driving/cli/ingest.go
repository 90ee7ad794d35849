package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
	"github.com/custodia-labs/curricula/internal/logger"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 500 * time.Millisecond

var (
	ingestForce   bool
	ingestMode    string
	ingestWorkers int
	ingestWatch   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Build the vector corpus from the curriculum document",
	Long: `Parses the curriculum document, chunks every program, embeds the chunks
and stores them in the collection.

A collection that already holds chunks is left untouched unless --force
is given. Without a file argument the configured document.path is used.

Modes:
  auto        hybrid when the LLM answers, structural otherwise
  structural  rule-based chunks only
  semantic    LLM chunks, structural fallback per program
  hybrid      LLM chunks merged with uncovered structural chunks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "rebuild even if the collection is populated")
	ingestCmd.Flags().StringVar(&ingestMode, "mode", "", "chunking mode (auto, structural, semantic, hybrid)")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "parallel program workers (0 = configured)")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "re-ingest whenever the document changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNoIngest
	}

	path, err := documentPath(args)
	if err != nil {
		return err
	}
	mode, err := parseMode(ingestMode)
	if err != nil {
		return err
	}
	opts := driving.IngestOptions{Force: ingestForce, Mode: mode, Workers: ingestWorkers}

	if err := ingestOnce(cmd, path, opts); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)
	opts.Force = true
	return watchFile(cmd.Context(), path, watchDebounce, func() {
		cmd.Printf("\n%s changed, re-ingesting\n", path)
		if err := ingestOnce(cmd, path, opts); err != nil {
			logger.Error("re-ingest failed: %v", err)
		}
	})
}

func ingestOnce(cmd *cobra.Command, path string, opts driving.IngestOptions) error {
	run, err := ingestService.Ingest(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printRun(cmd, run)
	return nil
}

func printRun(cmd *cobra.Command, run *domain.IngestRun) {
	if run == nil {
		return
	}
	if run.Skipped {
		cmd.Printf("Skipped %s: collection already populated or document missing (use --force to rebuild)\n", run.Source)
		return
	}

	s := run.Stats
	cmd.Printf("Ingested %s (%s mode) in %s\n", run.Source, run.Mode, run.Duration.Round(time.Millisecond))
	cmd.Printf("  Programs:   %d (technology %d, undergraduate %d)\n",
		s.ProgramsProcessed, s.TechnologyPrograms, s.UndergraduatePrograms)
	if s.RejectedPrograms > 0 || s.FailedPrograms > 0 {
		cmd.Printf("  Dropped:    %d rejected, %d failed\n", s.RejectedPrograms, s.FailedPrograms)
	}
	cmd.Printf("  Chunks:     %d (%d semester, %d llm, %d structural)\n",
		s.ChunksCreated, s.SemesterChunks, s.LLMChunks, s.StructuralChunks)
}
