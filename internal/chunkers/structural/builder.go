// Package structural provides the deterministic rule-based chunk builder.
package structural

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

// Name is the strategy identifier recorded in chunk provenance.
const Name = "structural"

// Ensure Builder implements the interface.
var _ driven.ChunkStrategy = (*Builder)(nil)

// Builder turns a validated program into a fixed family of chunks:
// program_complete, fee, occupational_profile, curriculum_summary and one
// curriculum_semester per semester, in that order.
type Builder struct {
	summaryPolicy   domain.SummaryPolicy
	leadingSubjects int
}

// Option configures the structural builder.
type Option func(*Builder)

// WithSummaryPolicy sets when the curriculum_summary chunk is emitted.
func WithSummaryPolicy(policy domain.SummaryPolicy) Option {
	return func(b *Builder) {
		if policy.IsValid() {
			b.summaryPolicy = policy
		}
	}
}

// WithLeadingSubjects lists the first n subjects of every semester in the
// curriculum summary.
func WithLeadingSubjects(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.leadingSubjects = n
		}
	}
}

// New creates a structural builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{summaryPolicy: domain.SummaryAlways}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the strategy name.
func (b *Builder) Name() string {
	return Name
}

// SummaryPolicy returns the configured summary policy.
func (b *Builder) SummaryPolicy() domain.SummaryPolicy {
	return b.summaryPolicy
}

// ProduceChunks builds the chunks for p. It never fails.
func (b *Builder) ProduceChunks(_ context.Context, p domain.Program) ([]domain.Chunk, error) {
	return b.Build(p), nil
}

// Build returns the chunks for p in builder order.
func (b *Builder) Build(p domain.Program) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, ExpectedChunkCount(p, b.summaryPolicy))

	complete := newChunk(p.Body, domain.ChunkTypeProgramComplete, p)
	complete.Metadata[domain.MetaFeeAmount] = p.CostAmount
	complete.Metadata[domain.MetaTotalSemesters] = len(p.Semesters)
	chunks = append(chunks, complete)

	if p.HasFee() {
		fee := newChunk(feeContent(p), domain.ChunkTypeFee, p)
		fee.Metadata[domain.MetaFeeAmount] = p.CostAmount
		chunks = append(chunks, fee)
	}

	if p.HasProfile() {
		content := fmt.Sprintf("%s - Perfil Ocupacional\n%s", p.Name, p.OccupationalProfile)
		chunks = append(chunks, newChunk(content, domain.ChunkTypeOccupationalProfile, p))
	}

	if b.emitSummary(p) {
		summary := newChunk(b.summaryContent(p), domain.ChunkTypeCurriculumSummary, p)
		summary.Metadata[domain.MetaTotalSemesters] = len(p.Semesters)
		chunks = append(chunks, summary)
	}

	for _, sem := range p.Semesters {
		c := newChunk(semesterContent(p.Name, sem), domain.ChunkTypeCurriculumSemester, p)
		c.Metadata[domain.MetaSemesterNumber] = sem.Number
		c.Metadata[domain.MetaSubjectCount] = len(sem.Subjects)
		c.Metadata[domain.MetaTotalCredits] = sem.TotalCredits()
		chunks = append(chunks, c)
	}

	return chunks
}

// ExpectedChunkCount is 2 + has_fee + has_profile + semesters under
// SummaryAlways. SummaryRequireSemesters drops the summary for programs
// without semesters.
func ExpectedChunkCount(p domain.Program, policy domain.SummaryPolicy) int {
	n := 1 + len(p.Semesters)
	if p.HasFee() {
		n++
	}
	if p.HasProfile() {
		n++
	}
	if policy != domain.SummaryRequireSemesters || len(p.Semesters) > 0 {
		n++
	}
	return n
}

func (b *Builder) emitSummary(p domain.Program) bool {
	return b.summaryPolicy != domain.SummaryRequireSemesters || len(p.Semesters) > 0
}

func newChunk(content string, t domain.ChunkType, p domain.Program) domain.Chunk {
	c := domain.NewChunk(content, t, p)
	c.Metadata[domain.MetaSource] = domain.SourceStructural
	c.Metadata[domain.MetaChunkStrategy] = Name
	c.Metadata[domain.MetaLLMGenerated] = false
	c.Metadata[domain.MetaConfidence] = 1.0
	return c
}

func feeContent(p domain.Program) string {
	return fmt.Sprintf("%s\nCosto: $%s COP\nPrograma de %s USC.", p.Name, p.CostRaw, p.SectionType.Label())
}

func (b *Builder) summaryContent(p domain.Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - Plan de Estudios\nDuración: %d semestres", p.Name, len(p.Semesters))

	if b.leadingSubjects == 0 {
		return sb.String()
	}
	for _, sem := range p.Semesters {
		names := make([]string, 0, b.leadingSubjects)
		for i, subj := range sem.Subjects {
			if i == b.leadingSubjects {
				break
			}
			names = append(names, subj.Name)
		}
		fmt.Fprintf(&sb, "\nSemestre %s: %s", sem.Number, strings.Join(names, ", "))
	}
	return sb.String()
}

func semesterContent(name string, sem domain.Semester) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - Semestre %s\n", name, sem.Number)
	fmt.Fprintf(&sb, "Total: %d materias, %d créditos\n", len(sem.Subjects), sem.TotalCredits())
	sb.WriteString("Materias:")
	for _, subj := range sem.Subjects {
		fmt.Fprintf(&sb, "\n- %s | %d créditos", subj.Name, subj.Credits)
	}
	return sb.String()
}
