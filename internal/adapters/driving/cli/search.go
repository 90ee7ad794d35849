package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// snippetLength caps the content shown per result in text output.
const snippetLength = 160

var (
	searchLimit int
	searchType  string
	searchSmart bool
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the curriculum corpus",
	Long: `Embeds the query and returns the most similar chunks.

Use --type to restrict results to one chunk type (fee, occupational_profile,
curriculum_summary, curriculum_semester, program_complete, program_overview).
With --smart the query is classified by keyword first, which picks the type
filter and the number of results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().StringVar(&searchType, "type", "", "restrict results to one chunk type")
	searchCmd.Flags().BoolVar(&searchSmart, "smart", false, "classify the query to choose filter and limit")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchResultJSON is the JSON shape of one hit.
type searchResultJSON struct {
	Rank           int            `json:"rank"`
	Program        string         `json:"program_name"`
	Type           string         `json:"type"`
	Similarity     float64        `json:"similarity"`
	RelevanceScore float64        `json:"relevance_score"`
	ChunkingSource string         `json:"chunking_source"`
	FormattedFee   string         `json:"formatted_fee,omitempty"`
	Semester       string         `json:"semester,omitempty"`
	Credits        int64          `json:"credits,omitempty"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errNoSearch
	}

	var (
		results []domain.SearchResult
		class   *domain.Classification
	)
	if searchSmart {
		smart, err := searchService.SmartSearch(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		results = smart.Results
		class = &smart.Classification
	} else {
		filter := domain.ChunkType(searchType)
		if filter != "" && !filter.IsValid() {
			return fmt.Errorf("%w: unknown chunk type %q", domain.ErrInvalidInput, searchType)
		}
		var err error
		results, err = searchService.Search(cmd.Context(), query, domain.SearchOptions{K: searchLimit, TypeFilter: filter})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	if class != nil {
		cmd.Printf("Query class: %s (k=%d)\n\n", describeClass(*class), class.K)
	}
	return outputSearchTable(cmd, results)
}

func describeClass(c domain.Classification) string {
	if c.Keyword == "" {
		return string(c.Class)
	}
	return fmt.Sprintf("%s, matched %q", c.Class, c.Keyword)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, len(results))
	for i := range results {
		r := &results[i]
		out[i] = searchResultJSON{
			Rank:           r.Rank,
			Program:        r.ProgramName,
			Type:           r.ChunkType.String(),
			Similarity:     r.Similarity,
			RelevanceScore: r.RelevanceScore,
			ChunkingSource: r.ChunkingSource,
			FormattedFee:   r.FormattedFee,
			Semester:       r.Semester,
			Credits:        r.Credits,
			Content:        r.Chunk.Content,
			Metadata:       r.Chunk.Metadata,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s - %s (%.1f%%)\n", r.Rank, r.ProgramName, r.ChunkType, r.RelevanceScore)
		switch {
		case r.FormattedFee != "":
			cmd.Printf("      Fee: %s\n", r.FormattedFee)
		case r.Semester != "":
			cmd.Printf("      Semester %s: %d subjects, %d credits\n", r.Semester, r.Subjects, r.Credits)
		}
		cmd.Printf("      %s\n", snippet(r.Chunk.Content, snippetLength))
		cmd.Println()
	}
	return nil
}

// snippet flattens content to one line and cuts it at n runes.
func snippet(content string, n int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
