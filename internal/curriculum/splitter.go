package curriculum

import (
	"strings"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

const programMarker = "### "

// RawProgram is a program heading with its unparsed body.
type RawProgram struct {
	Name        string
	Body        string
	SectionType domain.SectionType
}

// Split cuts a section into programs. A program heading is a line starting
// with "### " that does not name a semester. The body runs from the heading
// line to the line before the next program heading or the end of the
// section. Text before the first heading is ignored.
func Split(sec Section) []RawProgram {
	if !sec.Found || sec.Text == "" {
		return nil
	}

	var (
		programs []RawProgram
		current  *RawProgram
		body     []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimRight(strings.Join(body, "\n"), " \t\n")
		programs = append(programs, *current)
	}

	for _, line := range splitLines(sec.Text) {
		if isProgramHeading(line) {
			flush()
			current = &RawProgram{
				Name:        strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), programMarker)),
				SectionType: sec.Type,
			}
			body = []string{line}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return programs
}

func isProgramHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, programMarker) {
		return false
	}
	lower := strings.ToLower(trimmed)
	return !strings.Contains(lower, "semestre") && !strings.Contains(lower, "semester")
}
