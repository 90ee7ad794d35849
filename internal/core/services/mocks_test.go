package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curricula/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curricula/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/curricula/internal/chunkers"
	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

const fixturePath = "../../curriculum/testdata/curriculum.md"

// --- Mock implementations ---

// fakeEmbedder hashes lowercased words into a fixed-size bag-of-words vector.
// Identical texts always embed identically.
type fakeEmbedder struct {
	dims    int
	pingErr error

	// short drops the last vector of every batch.
	short bool
	// batchErr fails every EmbedBatch call.
	batchErr error

	mu    sync.Mutex
	calls int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dims: 256}
}

func (e *fakeEmbedder) vector(text string) []float32 {
	v := make([]float32, e.dims)
	v[0] = 0.01
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[1+int(h.Sum32())%(e.dims-1)]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.batchErr != nil {
		return nil, e.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, e.vector(t))
	}
	if e.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int              { return e.dims }
func (e *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (e *fakeEmbedder) Ping(_ context.Context) error { return e.pingErr }
func (e *fakeEmbedder) Close() error                 { return nil }

// mockLLM answers every prompt with the same response.
type mockLLM struct {
	response string
	pingErr  error
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	if m.response == "" {
		return "", errors.New("no response")
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.pingErr }
func (m *mockLLM) Close() error                 { return nil }

// recordingStore captures Add calls.
type recordingStore struct {
	ids       []string
	texts     []string
	metadatas []map[string]any
	count     int
	countErr  error
}

func (s *recordingStore) Add(_ context.Context, ids, texts []string, metadatas []map[string]any, _ [][]float32) error {
	s.ids = append(s.ids, ids...)
	s.texts = append(s.texts, texts...)
	s.metadatas = append(s.metadatas, metadatas...)
	s.count += len(ids)
	return nil
}

func (s *recordingStore) Query(_ context.Context, _ []float32, _ int, _ map[string]string) (driven.QueryResult, error) {
	return driven.QueryResult{}, nil
}

func (s *recordingStore) Count(_ context.Context) (int, error) { return s.count, s.countErr }

func (s *recordingStore) Clear(_ context.Context) error {
	s.count = 0
	return nil
}

func (s *recordingStore) Name() string { return "recording" }
func (s *recordingStore) Close() error { return nil }

// --- Helpers ---

func testChunking() domain.ChunkingSettings {
	c := domain.DefaultAppSettings().Chunking
	c.Mode = domain.ChunkingModeStructural
	c.LLMRate = 1000
	return c
}

func newMemoryStore(t *testing.T) *chromem.Store {
	t.Helper()
	store, err := chromem.NewMemory("test_curriculum")
	require.NoError(t, err)
	return store
}

// newCorpus ingests the fixture document structurally and returns the services around it.
func newCorpus(t *testing.T) (*IngestService, *SearchService, *memory.RunStore) {
	t.Helper()
	embedder := newFakeEmbedder()
	store := newMemoryStore(t)
	runs := memory.NewRunStore()

	ingest := NewIngestService(embedder, store, runs, chunkers.NewDefaultRegistry(), testChunking())
	_, err := ingest.Ingest(context.Background(), fixturePath, driving.IngestOptions{})
	require.NoError(t, err)

	settings := domain.DefaultAppSettings()
	settings.Vector.Collection = store.Name()
	search := NewSearchService(embedder, store, settings)
	search.SetRunStore(runs)
	return ingest, search, runs
}
