// Package services implements the driving ports: ingestion through the
// chunking pipeline, plain and classified search, program comparison and
// settings.
package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/curricula/internal/chunkers"
	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
	"github.com/custodia-labs/curricula/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// chunkIDPrefix prefixes generated chunk ids.
const chunkIDPrefix = "doc_"

// IngestService chunks the curriculum document and loads it into the vector store.
type IngestService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	runs     driven.RunStore
	registry *chunkers.Registry
	chunking domain.ChunkingSettings

	llm     driven.LLMService
	prompts driven.PromptStore

	// mu serialises ingestions so the store has a single writer.
	mu sync.Mutex
}

// NewIngestService creates an ingest service.
// The runs parameter is optional (can be nil).
func NewIngestService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	runs driven.RunStore,
	registry *chunkers.Registry,
	chunking domain.ChunkingSettings,
) *IngestService {
	if registry == nil {
		registry = chunkers.NewDefaultRegistry()
	}
	return &IngestService{
		embedder: embedder,
		store:    store,
		runs:     runs,
		registry: registry,
		chunking: chunking,
	}
}

// SetLLMService enables the semantic and hybrid chunking modes.
func (s *IngestService) SetLLMService(llm driven.LLMService) {
	s.llm = llm
}

// SetPromptStore sets the prompt templates used by the semantic builder.
func (s *IngestService) SetPromptStore(prompts driven.PromptStore) {
	s.prompts = prompts
}

// Ingest parses, chunks, embeds and stores the document at path.
// An already populated collection is left alone unless opts.Force is set.
func (s *IngestService) Ingest(ctx context.Context, path string, opts driving.IngestOptions) (*domain.IngestRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	run := &domain.IngestRun{
		ID:        uuid.NewString(),
		Source:    path,
		StartedAt: time.Now(),
	}

	doc, ok, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		run.Skipped = true
		return run, nil
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count collection: %w", err)
	}
	if count > 0 && !opts.Force {
		logger.Info("Collection %q already holds %d chunks, skipping (use --force to rebuild)", s.store.Name(), count)
		run.Skipped = true
		run.Mode = s.mode(opts)
		run.Duration = time.Since(run.StartedAt)
		s.record(ctx, *run)
		return run, nil
	}

	result, mode, err := s.chunk(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	run.Mode = mode
	run.Stats = result.Stats

	if err := s.replace(ctx, result.Chunks); err != nil {
		return nil, err
	}

	run.Duration = time.Since(run.StartedAt)
	s.record(ctx, *run)
	return run, nil
}

// Chunk runs the chunking pipeline on the document at path without storing anything.
func (s *IngestService) Chunk(ctx context.Context, path string, opts driving.IngestOptions) (*driving.ChunkResult, error) {
	doc, ok, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &driving.ChunkResult{Mode: s.mode(opts)}, nil
	}

	result, mode, err := s.chunk(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	return &driving.ChunkResult{
		Chunks:   result.Chunks,
		Stats:    result.Stats,
		Mode:     mode,
		Rejected: result.Report.Rejected,
		Missing:  result.Report.Missing,
	}, nil
}

// IngestChunks embeds every chunk in one batch and adds it to the store.
// Chunks without an id are given one.
func (s *IngestService) IngestChunks(ctx context.Context, chunks []domain.Chunk) error {
	b, err := s.embed(ctx, chunks)
	if err != nil || b == nil {
		return err
	}
	return s.add(ctx, b)
}

// replace swaps the collection contents for chunks. The collection is
// cleared only once the new embeddings exist.
func (s *IngestService) replace(ctx context.Context, chunks []domain.Chunk) error {
	defer logger.Stage("Loading Vector Store")()

	b, err := s.embed(ctx, chunks)
	if err != nil {
		return err
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}
	if b == nil {
		return nil
	}
	return s.add(ctx, b)
}

// batch is a set of chunks ready for VectorStore.Add.
type batch struct {
	ids        []string
	texts      []string
	metadatas  []map[string]any
	embeddings [][]float32
}

// embed assigns ids and embeds the chunks. It returns a nil batch for no chunks.
func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) (*batch, error) {
	if len(chunks) == 0 {
		logger.Warn("no chunks to ingest")
		return nil, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	b := &batch{
		ids:       assignIDs(chunks),
		texts:     make([]string, len(chunks)),
		metadatas: make([]map[string]any, len(chunks)),
	}
	for i, c := range chunks {
		b.texts[i] = c.Content
		b.metadatas[i] = c.Metadata
	}

	logger.Debug("Embedding %d chunks with %s", len(b.texts), s.embedder.ModelName())
	embeddings, err := s.embedder.EmbedBatch(ctx, b.texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	b.embeddings = embeddings

	if len(b.ids) != len(b.texts) || len(b.texts) != len(b.metadatas) || len(b.metadatas) != len(b.embeddings) {
		return nil, fmt.Errorf("%w: ids=%d texts=%d metadatas=%d embeddings=%d",
			domain.ErrLengthMismatch, len(b.ids), len(b.texts), len(b.metadatas), len(b.embeddings))
	}
	return b, nil
}

func (s *IngestService) add(ctx context.Context, b *batch) error {
	if err := s.store.Add(ctx, b.ids, b.texts, b.metadatas, b.embeddings); err != nil {
		return fmt.Errorf("add to collection: %w", err)
	}
	logger.Info("Stored %d chunks in %q", len(b.ids), s.store.Name())
	return nil
}

// assignIDs returns the chunk ids, generating one for every chunk without an
// id. Generated ids never repeat an id already in the batch.
func assignIDs(chunks []domain.Chunk) []string {
	ids := make([]string, len(chunks))
	seen := make(map[string]struct{}, len(chunks))
	for i, c := range chunks {
		if c.ID != "" {
			ids[i] = c.ID
			seen[c.ID] = struct{}{}
		}
	}
	for i := range ids {
		if ids[i] != "" {
			continue
		}
		id := newChunkID()
		for {
			if _, dup := seen[id]; !dup {
				break
			}
			id = newChunkID()
		}
		ids[i] = id
		seen[id] = struct{}{}
	}
	return ids
}

// Runs lists recent ingestion runs, newest first.
func (s *IngestService) Runs(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if s.runs == nil {
		return []domain.IngestRun{}, nil
	}
	return s.runs.List(ctx, limit)
}

// ResolveMode turns the requested mode into a concrete one. Auto becomes
// hybrid when the LLM answers a ping; LLM modes without a reachable LLM
// degrade to structural.
func (s *IngestService) ResolveMode(ctx context.Context, mode domain.ChunkingMode) domain.ChunkingMode {
	if mode == "" {
		mode = domain.ChunkingModeAuto
	}
	if mode == domain.ChunkingModeStructural {
		return mode
	}

	available := s.llm != nil && s.llm.Ping(ctx) == nil
	switch {
	case available && mode == domain.ChunkingModeAuto:
		return domain.ChunkingModeHybrid
	case available:
		return mode
	case mode != domain.ChunkingModeAuto:
		logger.Warn("LLM unavailable, %s chunking degraded to structural", mode)
	}
	return domain.ChunkingModeStructural
}

func (s *IngestService) chunk(ctx context.Context, doc string, opts driving.IngestOptions) (*PipelineResult, domain.ChunkingMode, error) {
	requested := s.mode(opts)
	if !requested.IsValid() {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrInvalidMode, requested)
	}
	mode := s.ResolveMode(ctx, requested)

	strategy, err := s.registry.Build(mode, chunkers.Config{
		LLM:      s.llm,
		Prompts:  s.prompts,
		Settings: s.chunking,
	})
	if err != nil {
		return nil, "", fmt.Errorf("build %s strategy: %w", mode, err)
	}

	workers := s.chunking.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	result, err := NewPipeline(strategy, workers).Run(ctx, doc)
	if err != nil {
		return nil, "", err
	}
	return result, mode, nil
}

func (s *IngestService) mode(opts driving.IngestOptions) domain.ChunkingMode {
	if opts.Mode != "" {
		return opts.Mode
	}
	return s.chunking.Mode
}

func (s *IngestService) record(ctx context.Context, run domain.IngestRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Record(ctx, run); err != nil {
		logger.Warn("record ingest run: %v", err)
	}
}

// readDocument returns the file contents, or ok=false with a warning when
// the file does not exist.
func readDocument(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("document %s not found", path)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read document: %w", err)
	}
	return string(data), true, nil
}

// newChunkID is swapped in tests.
var newChunkID = NewChunkID

// NewChunkID returns a "doc_" id with eight hex characters.
func NewChunkID() string {
	return chunkIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
