package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

const messageReply = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-haiku-latest",
  "content": [{"type": "text", "text": "{\"chunks\": "}, {"type": "text", "text": "[]}"}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "ak-test", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	require.Error(t, err)

	svc, err := NewLLMService(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestLLMService_Generate(t *testing.T) {
	var got map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageReply))
	})

	out, err := svc.Generate(context.Background(), "hola", driven.GenerateOptions{
		MaxTokens:   300,
		Temperature: 0.1,
		TopP:        0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"chunks": []}`, out)

	assert.Equal(t, DefaultModel, got["model"])
	assert.InDelta(t, 300, got["max_tokens"], 0)
	assert.InDelta(t, 0.1, got["temperature"], 1e-9)
	assert.InDelta(t, 0.9, got["top_p"], 1e-9)
}

func TestLLMService_Generate_DefaultMaxTokens(t *testing.T) {
	var got map[string]any
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageReply))
	})

	_, err := svc.Generate(context.Background(), "hola", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.InDelta(t, DefaultMaxTokens, got["max_tokens"], 0)
	assert.NotContains(t, got, "temperature")
}

func TestLLMService_Generate_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	})

	_, err := svc.Generate(context.Background(), "hola", driven.GenerateOptions{})
	assert.ErrorContains(t, err, "anthropic: generate")
}

func TestLLMService_Ping(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"has_more":false,"first_id":null,"last_id":null}`))
	})
	assert.NoError(t, svc.Ping(context.Background()))
}
