package curriculum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

// Markers that must all appear in a program body for it to be kept.
const (
	CostMarker       = "Costo Matricula"
	ProfileMarker    = "Perfil Ocupacional"
	CurriculumMarker = "Curriculo"
)

var (
	costPattern     = regexp.MustCompile(`(?i)\*\*Costo Matricula:\*\*\s*\$\s*([0-9][0-9,.]*)\s*\(💰\s*cop\)`)
	profilePattern  = regexp.MustCompile(`(?s)\*\*Perfil Ocupacional:\*\*\s*(.*?)(?:\*\*Curriculo:|$)`)
	semesterPattern = regexp.MustCompile(`#### Semestre ([IVX\d]+)\s*\n((?:- [^\n]*(?:\n|$))*)`)
	subjectPattern  = regexp.MustCompile(`^- ([^|]+?)\s*\|\s*(\d+)\s*Cr[eé]ditos`)
)

// Valid reports whether body carries the cost, profile and curriculum markers.
func Valid(body string) bool {
	return strings.Contains(body, CostMarker) &&
		strings.Contains(body, ProfileMarker) &&
		strings.Contains(body, CurriculumMarker)
}

// Extract parses the fields of one program. It returns domain.ErrInvalidProgram
// when the body fails the marker gate; optional fields that do not match
// default to zero values.
func Extract(raw RawProgram) (domain.Program, error) {
	if !Valid(raw.Body) {
		return domain.Program{}, fmt.Errorf("%s: %w", raw.Name, domain.ErrInvalidProgram)
	}

	amount, costRaw := ExtractCost(raw.Body)
	return domain.Program{
		Name:                raw.Name,
		Body:                raw.Body,
		SectionType:         raw.SectionType,
		CostAmount:          amount,
		CostRaw:             costRaw,
		OccupationalProfile: ExtractProfile(raw.Body),
		Semesters:           ExtractSemesters(raw.Body),
	}, nil
}

// ExtractCost returns the tuition amount and the matched raw text.
// Separators are stripped; a non-numeric remainder yields 0.
func ExtractCost(body string) (int64, string) {
	m := costPattern.FindStringSubmatch(body)
	if m == nil {
		return 0, ""
	}
	raw := m[1]
	return ParseAmount(raw), raw
}

// ParseAmount strips "," and "." from raw and parses the digits.
func ParseAmount(raw string) int64 {
	digits := strings.NewReplacer(",", "", ".", "").Replace(raw)
	if digits == "" {
		return 0
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ExtractProfile returns the text between the profile label and the
// curriculum label, trimmed.
func ExtractProfile(body string) string {
	m := profilePattern.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ExtractSemesters returns the semesters in document order. A semester whose
// list yields no subjects is dropped.
func ExtractSemesters(body string) []domain.Semester {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var semesters []domain.Semester
	for _, m := range semesterPattern.FindAllStringSubmatch(body, -1) {
		subjects := parseSubjects(m[2])
		if len(subjects) == 0 {
			continue
		}
		semesters = append(semesters, domain.Semester{Number: m[1], Subjects: subjects})
	}
	return semesters
}

func parseSubjects(list string) []domain.Subject {
	var subjects []domain.Subject
	for _, line := range strings.Split(list, "\n") {
		m := subjectPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		credits, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		subjects = append(subjects, domain.Subject{Name: strings.TrimSpace(m[1]), Credits: credits})
	}
	return subjects
}
