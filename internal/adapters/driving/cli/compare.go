package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

var (
	compareAspect string
	compareJSON   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [program]...",
	Short: "Compare programs on one aspect",
	Long: `Finds the best matching chunk for each program on the chosen aspect.

Aspects:
  fee                   tuition (summary names the cheapest and priciest)
  occupational_profile  what graduates do
  curriculum            any chunk, no type filter

Example:
  curricula compare "Ingeniería de Sistemas" "Tecnología en Desarrollo de Software"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareAspect, "aspect", domain.AspectFee, "aspect to compare (fee, occupational_profile, curriculum)")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output the comparison as JSON")
	rootCmd.AddCommand(compareCmd)
}

type comparisonJSON struct {
	Aspect  string      `json:"aspect"`
	Matches []matchJSON `json:"matches"`
	Summary string      `json:"summary"`
}

type matchJSON struct {
	Program        string  `json:"program"`
	Found          bool    `json:"found"`
	MatchedProgram string  `json:"matched_program,omitempty"`
	Similarity     float64 `json:"similarity,omitempty"`
	FormattedFee   string  `json:"formatted_fee,omitempty"`
	Content        string  `json:"content,omitempty"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNoSearch
	}

	cmp, err := searchService.Compare(cmd.Context(), args, compareAspect)
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if compareJSON {
		return outputCompareJSON(cmd, cmp)
	}
	outputCompareText(cmd, cmp)
	return nil
}

func outputCompareJSON(cmd *cobra.Command, cmp *domain.Comparison) error {
	out := comparisonJSON{Aspect: cmp.Aspect, Summary: cmp.Summary, Matches: make([]matchJSON, len(cmp.Matches))}
	for i, m := range cmp.Matches {
		out.Matches[i] = matchJSON{Program: m.Program, Found: m.Found}
		if m.Found {
			out.Matches[i].MatchedProgram = m.Result.ProgramName
			out.Matches[i].Similarity = m.Result.Similarity
			out.Matches[i].FormattedFee = m.Result.FormattedFee
			out.Matches[i].Content = m.Result.Chunk.Content
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCompareText(cmd *cobra.Command, cmp *domain.Comparison) {
	cmd.Printf("Comparing on %s\n\n", cmp.Aspect)
	for _, m := range cmp.Matches {
		if !m.Found {
			cmd.Printf("  %s: no information found\n\n", m.Program)
			continue
		}
		cmd.Printf("  %s -> %s (%.1f%%)\n", m.Program, m.Result.ProgramName, m.Result.RelevanceScore)
		if m.Result.FormattedFee != "" {
			cmd.Printf("      Fee: %s\n", m.Result.FormattedFee)
		} else {
			cmd.Printf("      %s\n", snippet(m.Result.Chunk.Content, snippetLength))
		}
		cmd.Println()
	}
	cmd.Println(cmp.Summary)
}
