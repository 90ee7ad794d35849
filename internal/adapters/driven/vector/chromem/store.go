// Package chromem provides a VectorStore backed by chromem-go, an embedded
// vector database with optional on-disk persistence.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// collectionMetadata selects cosine distance.
var collectionMetadata = map[string]string{"hnsw:space": "cosine"}

// Store is a single chromem collection.
type Store struct {
	mu         sync.RWMutex
	db         *chromem.DB
	name       string
	collection *chromem.Collection
}

// New opens the collection name in a persistent database at path, or in
// memory when path is empty. compress gzips persisted documents.
func New(path, name string, compress bool) (*Store, error) {
	if name == "" {
		return nil, errors.New("chromem: collection name is required")
	}

	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("open chromem db at %s: %w", path, err)
		}
	}

	s := &Store{db: db, name: name}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory opens an in-memory collection.
func NewMemory(name string) (*Store, error) {
	return New("", name, false)
}

func (s *Store) open() error {
	// Embeddings are always supplied, so no embedding func is set.
	c, err := s.db.GetOrCreateCollection(s.name, collectionMetadata, nil)
	if err != nil {
		return fmt.Errorf("open collection %s: %w", s.name, err)
	}
	s.collection = c
	return nil
}

// Add stores one document per id.
func (s *Store) Add(
	ctx context.Context, ids, texts []string, metadatas []map[string]any, embeddings [][]float32,
) error {
	if len(ids) != len(texts) || len(ids) != len(metadatas) || len(ids) != len(embeddings) {
		return fmt.Errorf("chromem: mismatched lengths ids=%d texts=%d metadatas=%d embeddings=%d",
			len(ids), len(texts), len(metadatas), len(embeddings))
	}
	if len(ids) == 0 {
		return nil
	}

	flat := make([]map[string]string, len(metadatas))
	for i, m := range metadatas {
		flat[i] = Flatten(m)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Add(ctx, ids, embeddings, flat, texts)
}

// Query returns up to k documents nearest to embedding that match where.
func (s *Store) Query(
	ctx context.Context, embedding []float32, k int, where map[string]string,
) (driven.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.collection.Count()
	if count == 0 || k <= 0 {
		return driven.QueryResult{}, nil
	}
	if k > count {
		k = count
	}
	if len(where) == 0 {
		where = nil
	}

	hits, err := s.collection.QueryEmbedding(ctx, embedding, k, where, nil)
	if err != nil {
		return driven.QueryResult{}, fmt.Errorf("chromem query: %w", err)
	}

	res := driven.QueryResult{
		IDs:       make([]string, 0, len(hits)),
		Documents: make([]string, 0, len(hits)),
		Metadatas: make([]map[string]any, 0, len(hits)),
		Distances: make([]float64, 0, len(hits)),
	}
	for _, h := range hits {
		meta := make(map[string]any, len(h.Metadata))
		for key, v := range h.Metadata {
			meta[key] = v
		}
		res.IDs = append(res.IDs, h.ID)
		res.Documents = append(res.Documents, h.Content)
		res.Metadatas = append(res.Metadatas, meta)
		res.Distances = append(res.Distances, 1-float64(h.Similarity))
	}
	return res, nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Count(), nil
}

// Clear drops and recreates the collection.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("delete collection %s: %w", s.name, err)
	}
	return s.open()
}

// Name returns the collection name.
func (s *Store) Name() string {
	return s.name
}

// Close is a no-op; persistent writes happen on Add.
func (s *Store) Close() error {
	return nil
}

// Flatten converts metadata to the string map chromem stores.
// Nil values are dropped.
func Flatten(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			out[k] = t
		case bool:
			out[k] = strconv.FormatBool(t)
		case int:
			out[k] = strconv.Itoa(t)
		case int64:
			out[k] = strconv.FormatInt(t, 10)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case float32:
			out[k] = strconv.FormatFloat(float64(t), 'f', -1, 32)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
