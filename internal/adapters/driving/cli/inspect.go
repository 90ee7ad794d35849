package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/curriculum"
)

var inspectOutline bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show how the curriculum document is parsed",
	Long: `Prints the markdown heading outline of the document followed by a parse
report: sections found, programs per section, programs rejected for missing
markers, and the fields extracted from each valid program.

Useful when a program produces fewer chunks than expected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectOutline, "outline", true, "print the heading outline")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, err := documentPath(args)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	if inspectOutline {
		printOutline(cmd, curriculum.Outline(data))
	}

	programs, report := curriculum.Parse(string(data))
	printReport(cmd, programs, report)
	return nil
}

func printOutline(cmd *cobra.Command, headings []curriculum.Heading) {
	cmd.Println("Outline")
	cmd.Println("=======")
	for _, h := range headings {
		// Semester headings repeat for every program.
		if h.Level > 3 {
			continue
		}
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		cmd.Printf("%4d  %s%s\n", h.Line, indent, h.Text)
	}
	cmd.Println()
}

func printReport(cmd *cobra.Command, programs []domain.Program, report curriculum.Report) {
	cmd.Println("Parse report")
	cmd.Println("============")

	for _, sec := range domain.AllSectionTypes() {
		cmd.Printf("  %-14s %d program headings\n", sec.String()+":", report.Headings[sec])
	}
	for _, sec := range report.Missing {
		cmd.Printf("  Missing section: %s\n", sec)
	}
	for _, name := range report.Rejected {
		cmd.Printf("  Rejected (missing markers): %s\n", name)
	}
	cmd.Println()

	for _, p := range programs {
		fee := "no fee"
		if p.HasFee() {
			fee = domain.FormatFee(p.CostAmount)
		}
		profile := "no profile"
		if p.HasProfile() {
			profile = fmt.Sprintf("profile %d chars", len([]rune(p.OccupationalProfile)))
		}
		subjects := 0
		for _, s := range p.Semesters {
			subjects += len(s.Subjects)
		}
		cmd.Printf("  %s [%s]\n", p.Name, p.SectionType.Label())
		cmd.Printf("      %s, %s, %d semesters, %d subjects\n", fee, profile, len(p.Semesters), subjects)
	}
	cmd.Printf("\n%d valid programs, %d rejected\n", len(programs), len(report.Rejected))
}
