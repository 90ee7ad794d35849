package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

// Output formats of the chunk command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	chunkMode    string
	chunkWorkers int
	chunkFormat  string
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Run the chunking pipeline without storing anything",
	Long: `Parses and chunks the curriculum document and prints the chunks.
Nothing is embedded or written to the collection.

Use --format json or yaml to export the chunk records
({content, metadata}) for inspection or for loading elsewhere.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVar(&chunkMode, "mode", "", "chunking mode (auto, structural, semantic, hybrid)")
	chunkCmd.Flags().IntVar(&chunkWorkers, "workers", 0, "parallel program workers (0 = configured)")
	chunkCmd.Flags().StringVarP(&chunkFormat, "format", "f", formatText, "output format (text, json, yaml)")
	rootCmd.AddCommand(chunkCmd)
}

// chunkRecord is the exported shape of a chunk.
type chunkRecord struct {
	Content  string         `json:"content" yaml:"content"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

func runChunk(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNoIngest
	}

	path, err := documentPath(args)
	if err != nil {
		return err
	}
	mode, err := parseMode(chunkMode)
	if err != nil {
		return err
	}

	result, err := ingestService.Chunk(cmd.Context(), path, driving.IngestOptions{Mode: mode, Workers: chunkWorkers})
	if err != nil {
		return fmt.Errorf("chunk failed: %w", err)
	}

	switch chunkFormat {
	case formatJSON:
		return outputChunksJSON(cmd, result.Chunks)
	case formatYAML:
		return outputChunksYAML(cmd, result.Chunks)
	case formatText:
		outputChunksText(cmd, result)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", chunkFormat)
	}
}

func toRecords(chunks []domain.Chunk) []chunkRecord {
	records := make([]chunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = chunkRecord{Content: c.Content, Metadata: c.Metadata}
	}
	return records
}

func outputChunksJSON(cmd *cobra.Command, chunks []domain.Chunk) error {
	data, err := json.MarshalIndent(toRecords(chunks), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chunks: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputChunksYAML(cmd *cobra.Command, chunks []domain.Chunk) error {
	data, err := yaml.Marshal(toRecords(chunks))
	if err != nil {
		return fmt.Errorf("failed to marshal chunks: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func outputChunksText(cmd *cobra.Command, result *driving.ChunkResult) {
	if len(result.Missing) > 0 {
		names := make([]string, len(result.Missing))
		for i, m := range result.Missing {
			names[i] = m.String()
		}
		cmd.Printf("Missing sections: %s\n", strings.Join(names, ", "))
	}
	for _, name := range result.Rejected {
		cmd.Printf("Rejected: %s\n", name)
	}

	if len(result.Chunks) == 0 {
		cmd.Println("No chunks produced.")
		return
	}

	for i, c := range result.Chunks {
		source := domain.ChunkingSourceStructural
		if c.LLMGenerated() {
			source = domain.ChunkingSourceLLM
		}
		cmd.Printf("[%d] %-22s %s (%s, %d chars)\n", i+1, c.Type(), c.ProgramName(), source, len([]rune(c.Content)))
	}

	s := result.Stats
	cmd.Println()
	cmd.Printf("%d chunks from %d programs (%s mode, %s)\n",
		s.ChunksCreated, s.ProgramsProcessed, result.Mode, s.ProcessingTime.Round(time.Millisecond))
}
