package curriculum

import (
	"errors"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// Report describes what was found while reading a document.
type Report struct {
	// Missing lists sections whose heading was not found.
	Missing []domain.SectionType

	// Headings counts program headings per section.
	Headings map[domain.SectionType]int

	// Rejected lists programs dropped by the marker gate.
	Rejected []string
}

// Programs locates every section and splits it into raw programs.
func Programs(doc string) ([]RawProgram, Report) {
	report := Report{Headings: make(map[domain.SectionType]int)}

	var raws []RawProgram
	for _, sec := range Locate(doc) {
		if !sec.Found {
			report.Missing = append(report.Missing, sec.Type)
			continue
		}
		split := Split(sec)
		report.Headings[sec.Type] = len(split)
		raws = append(raws, split...)
	}
	return raws, report
}

// Parse extracts every valid program of doc in document order.
func Parse(doc string) ([]domain.Program, Report) {
	raws, report := Programs(doc)

	programs := make([]domain.Program, 0, len(raws))
	for _, raw := range raws {
		p, err := Extract(raw)
		if errors.Is(err, domain.ErrInvalidProgram) {
			report.Rejected = append(report.Rejected, raw.Name)
			continue
		}
		programs = append(programs, p)
	}
	return programs, report
}
