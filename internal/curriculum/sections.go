package curriculum

import (
	"strings"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// Section headings as they appear in the document.
const (
	TechnologyHeading    = "## PROGRAMAS DE TECNOLOGIA"
	UndergraduateHeading = "## ESTUDIOS DE PREGRADO"
)

var sectionHeadings = map[domain.SectionType]string{
	domain.SectionTechnology:    TechnologyHeading,
	domain.SectionUndergraduate: UndergraduateHeading,
}

// Section is the span of one top-level section.
type Section struct {
	Type domain.SectionType

	// Found is false when the heading is absent; the span is then empty.
	Found bool

	// HeadingLine is the 0-based line index of the heading.
	HeadingLine int

	// StartLine and EndLine delimit the body lines [StartLine, EndLine).
	StartLine int
	EndLine   int

	// Text is the section body without its heading line.
	Text string
}

// Locate returns the span of each known section in document order of
// domain.AllSectionTypes. Headings match exactly on the trimmed line first,
// then case-insensitively. A section ends at the next "## " heading.
func Locate(doc string) []Section {
	lines := splitLines(doc)
	sections := make([]Section, 0, len(sectionHeadings))

	for _, st := range domain.AllSectionTypes() {
		sec := Section{Type: st, HeadingLine: -1}

		idx := findHeading(lines, sectionHeadings[st], false)
		if idx < 0 {
			idx = findHeading(lines, sectionHeadings[st], true)
		}
		if idx >= 0 {
			end := len(lines)
			for j := idx + 1; j < len(lines); j++ {
				if isSectionHeading(lines[j]) {
					end = j
					break
				}
			}
			sec.Found = true
			sec.HeadingLine = idx
			sec.StartLine = idx + 1
			sec.EndLine = end
			sec.Text = strings.Join(lines[idx+1:end], "\n")
		}

		sections = append(sections, sec)
	}

	return sections
}

func findHeading(lines []string, heading string, fold bool) int {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == heading || (fold && strings.EqualFold(trimmed, heading)) {
			return i
		}
	}
	return -1
}

func isSectionHeading(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "## ")
}

func splitLines(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	return strings.Split(doc, "\n")
}
