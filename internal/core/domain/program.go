// Package domain holds the curriculum model (programs, semesters and
// subjects), the chunks cut from it, and search and ingestion records.
// It imports only the standard library.
package domain

// SectionType identifies the top-level document section a program belongs to.
type SectionType string

// Known document sections.
const (
	// SectionTechnology is the "technology programs" section.
	SectionTechnology SectionType = "technology"

	// SectionUndergraduate is the "undergraduate programs" section.
	SectionUndergraduate SectionType = "undergraduate"
)

// AllSectionTypes returns the sections in document order.
func AllSectionTypes() []SectionType {
	return []SectionType{SectionTechnology, SectionUndergraduate}
}

// IsValid returns true if the section type is recognised.
func (s SectionType) IsValid() bool {
	return s == SectionTechnology || s == SectionUndergraduate
}

// String returns the string representation.
func (s SectionType) String() string {
	return string(s)
}

// Label returns the Spanish label used in chunk content.
func (s SectionType) Label() string {
	switch s {
	case SectionTechnology:
		return "Tecnología"
	case SectionUndergraduate:
		return "Pregrado"
	default:
		return unknownDescription
	}
}

// Program is one academic program extracted from the curriculum document.
// Programs are value objects owned by the pipeline task that parsed them.
type Program struct {
	// Name is the heading text of the program.
	Name string

	// Body is the raw text from the program heading to the next program
	// heading or the end of the section.
	Body string

	// SectionType is the section the program was found in.
	SectionType SectionType

	// CostAmount is the tuition in pesos, 0 when absent or unparseable.
	CostAmount int64

	// CostRaw is the matched cost text, separators included.
	CostRaw string

	// OccupationalProfile is the trimmed profile text, possibly empty.
	OccupationalProfile string

	// Semesters follow document order, not numeric order of the label.
	Semesters []Semester
}

// HasFee returns true if the program has a positive tuition amount.
func (p Program) HasFee() bool {
	return p.CostAmount > 0
}

// HasProfile returns true if the program has occupational profile text.
func (p Program) HasProfile() bool {
	return p.OccupationalProfile != ""
}

// Semester is one academic term within a program.
type Semester struct {
	// Number is the label as written in the source (roman or decimal).
	Number string

	// Subjects in document order.
	Subjects []Subject
}

// TotalCredits sums the credits of all subjects.
func (s Semester) TotalCredits() int {
	total := 0
	for _, subj := range s.Subjects {
		total += subj.Credits
	}
	return total
}

// Subject is a single course within a semester.
type Subject struct {
	Name    string
	Credits int
}
