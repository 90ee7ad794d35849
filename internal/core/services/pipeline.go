package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/curriculum"
	"github.com/custodia-labs/curricula/internal/logger"
)

// PipelineResult is the output of one pipeline run.
type PipelineResult struct {
	Chunks []domain.Chunk
	Stats  domain.PipelineStats
	Report curriculum.Report

	// Failures joins the per-program errors, nil when every program succeeded.
	Failures error
}

// Pipeline chunks every program of a document on a bounded worker pool.
type Pipeline struct {
	strategy driven.ChunkStrategy
	workers  int
}

// NewPipeline creates a pipeline. Non-positive workers fall back to domain.DefaultWorkers.
func NewPipeline(strategy driven.ChunkStrategy, workers int) *Pipeline {
	if workers <= 0 {
		workers = domain.DefaultWorkers
	}
	return &Pipeline{strategy: strategy, workers: workers}
}

// Workers returns the pool size.
func (p *Pipeline) Workers() int {
	return p.workers
}

// taskResult is the slot a worker fills for one program.
type taskResult struct {
	program  domain.Program
	chunks   []domain.Chunk
	rejected bool
	err      error
}

// Run parses doc and produces chunks for every valid program. Missing
// sections and per-program failures are logged, never returned.
func (p *Pipeline) Run(ctx context.Context, doc string) (*PipelineResult, error) {
	if p.strategy == nil {
		return nil, errors.New("pipeline: no chunk strategy")
	}

	start := time.Now()
	defer logger.Stage("Chunking Pipeline")()

	raws, report := curriculum.Programs(doc)
	for _, missing := range report.Missing {
		logger.Warn("section %q not found, skipping its programs", missing.Label())
	}
	if len(raws) == 0 {
		logger.Warn("no programs found in document")
		return &PipelineResult{Report: report, Stats: domain.PipelineStats{ProcessingTime: time.Since(start)}}, nil
	}

	logger.Debug("Strategy: %s, workers: %d, programs: %d", p.strategy.Name(), p.workers, len(raws))

	slots := make([]taskResult, len(raws))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for i, raw := range raws {
		g.Go(func() error {
			res := p.runTask(ctx, raw)
			mu.Lock()
			slots[i] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	result := &PipelineResult{Report: report}
	var failures []error
	for i, slot := range slots {
		switch {
		case slot.rejected:
			result.Report.Rejected = append(result.Report.Rejected, raws[i].Name)
			result.Stats.RejectedPrograms++
		case slot.err != nil:
			failures = append(failures, slot.err)
			result.Stats.FailedPrograms++
		default:
			result.Chunks = append(result.Chunks, slot.chunks...)
			countProgram(&result.Stats, slot.program, slot.chunks)
		}
	}

	result.Failures = errors.Join(failures...)
	if result.Failures != nil {
		logger.Debug("program failures:\n%v", result.Failures)
	}

	result.Stats.ProcessingTime = time.Since(start)
	logger.Info("Processed %d programs into %d chunks (%d rejected, %d failed) in %s",
		result.Stats.ProgramsProcessed, result.Stats.ChunksCreated,
		result.Stats.RejectedPrograms, result.Stats.FailedPrograms,
		result.Stats.ProcessingTime.Round(time.Millisecond))

	return result, nil
}

// runTask extracts and chunks one program. Panics are recovered into errors.
func (p *Pipeline) runTask(ctx context.Context, raw curriculum.RawProgram) (res taskResult) {
	defer func() {
		if r := recover(); r != nil {
			res = taskResult{err: fmt.Errorf("program %q: panic: %v", raw.Name, r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return taskResult{err: fmt.Errorf("program %q: %w", raw.Name, err)}
	}

	program, err := curriculum.Extract(raw)
	if errors.Is(err, domain.ErrInvalidProgram) {
		logger.Debug("rejected %q: %v", raw.Name, err)
		return taskResult{rejected: true}
	}
	if err != nil {
		return taskResult{err: fmt.Errorf("program %q: %w", raw.Name, err)}
	}

	chunks, err := p.strategy.ProduceChunks(ctx, program)
	if err != nil {
		return taskResult{err: fmt.Errorf("program %q: %w", raw.Name, err)}
	}

	logger.Debug("%q: %d chunks", program.Name, len(chunks))
	return taskResult{program: program, chunks: chunks}
}

func countProgram(stats *domain.PipelineStats, p domain.Program, chunks []domain.Chunk) {
	stats.ProgramsProcessed++
	switch p.SectionType {
	case domain.SectionTechnology:
		stats.TechnologyPrograms++
	case domain.SectionUndergraduate:
		stats.UndergraduatePrograms++
	}

	stats.ChunksCreated += len(chunks)
	for _, c := range chunks {
		if c.Type() == domain.ChunkTypeCurriculumSemester {
			stats.SemesterChunks++
		}
		if c.LLMGenerated() {
			stats.LLMChunks++
		} else {
			stats.StructuralChunks++
		}
	}
}
