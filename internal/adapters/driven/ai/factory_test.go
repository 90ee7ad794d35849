package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curricula/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	result.Close()
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		errContains string
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "unconfigured", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{name: "openai without key", settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI}, wantNil: true},
		{
			name:     "ollama",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "bge-m3"},
		},
		{
			name:     "openai",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"},
		},
		{
			name:     "gemini",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
		},
		{
			name:        "anthropic",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantNil:     true,
			errContains: "does not support embeddings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.NotEmpty(t, svc.ModelName())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	providers := []domain.AIProvider{
		domain.AIProviderOllama, domain.AIProviderOpenAI, domain.AIProviderAnthropic, domain.AIProviderGemini,
	}
	for _, p := range providers {
		t.Run(string(p), func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), &domain.LLMSettings{
				Provider: p,
				APIKey:   "k",
				Model:    domain.DefaultLLMModels()[p],
			})
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, domain.DefaultLLMModels()[p], svc.ModelName())
		})
	}

	svc, err := CreateLLMService(context.Background(), &domain.LLMSettings{})
	require.NoError(t, err)
	assert.Nil(t, svc, "empty provider disables the LLM")
}

func TestCreateAndValidate_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	_, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "bge-m3",
		BaseURL:  server.URL,
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.2",
		BaseURL:  server.URL,
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestInitialise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"bge-m3:latest"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.Embedding.BaseURL = server.URL
	settings.LLM.BaseURL = server.URL

	result := Initialise(context.Background(), &settings)
	defer result.Close()

	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.EmbeddingService)
	require.NotNil(t, result.LLMService)
	assert.Equal(t, "llama3.2:latest", result.LLMService.ModelName())
}

func TestInitialise_Degrades(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	settings := domain.DefaultAppSettings()
	settings.Embedding.BaseURL = server.URL
	settings.LLM.BaseURL = server.URL

	result := Initialise(context.Background(), &settings)
	assert.Nil(t, result.EmbeddingService)
	assert.Nil(t, result.LLMService)
	assert.Len(t, result.Warnings, 2)

	assert.NotNil(t, Initialise(context.Background(), nil))
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(context.Background(), nil))
	assert.NoError(t, ValidateLLMConfig(context.Background(), &domain.LLMSettings{}))
}
