package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1024, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.api.BaseURL())
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	var got embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float64{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
		})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: "custom-embed"})
	assert.Zero(t, svc.Dimensions())

	vectors, err := svc.EmbedBatch(context.Background(), []string{"uno", "dos"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.5, vectors[1][1], 1e-6)
	assert.Equal(t, []string{"uno", "dos"}, got.Input)
	assert.Equal(t, "custom-embed", got.Model)
	assert.Equal(t, 3, svc.Dimensions(), "dimensions learnt from the response")
}

func TestEmbeddingService_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float64{{1, 0}}})
	}))
	defer server.Close()

	vector, err := NewEmbeddingService(Config{BaseURL: server.URL}).Embed(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vector)
}

func TestEmbeddingService_EmbedBatch_Empty(t *testing.T) {
	vectors, err := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"}).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbeddingService_EmbedBatch_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewEmbeddingService(Config{BaseURL: server.URL}).EmbedBatch(context.Background(), []string{"a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ollama error (status 404)")
		assert.Contains(t, err.Error(), "model not found")
	})

	t.Run("count mismatch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float64{{1}}})
		}))
		defer server.Close()

		_, err := NewEmbeddingService(Config{BaseURL: server.URL}).EmbedBatch(context.Background(), []string{"a", "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 2 embeddings")
	})

	t.Run("bad json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{"))
		}))
		defer server.Close()

		_, err := NewEmbeddingService(Config{BaseURL: server.URL}).EmbedBatch(context.Background(), []string{"a"})
		assert.ErrorContains(t, err, "decode response")
	})
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"bge-m3:latest"},{"name":"llama3.2:3b"}]}`))
	}))
	defer server.Close()

	t.Run("installed with tag", func(t *testing.T) {
		assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
	})

	t.Run("not pulled", func(t *testing.T) {
		err := NewEmbeddingService(Config{BaseURL: server.URL, Model: "nomic-embed-text"}).Ping(context.Background())
		assert.ErrorContains(t, err, "ollama pull nomic-embed-text")
	})

	t.Run("unreachable", func(t *testing.T) {
		assert.Error(t, NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"}).Ping(context.Background()))
	})
}
