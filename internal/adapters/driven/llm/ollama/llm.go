// Package ollama generates text with a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/curricula/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults for an empty LLMConfig.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 300 * time.Second
)

// PreferredModels are tried in order when the configured model is not installed.
var PreferredModels = []string{"llama3.2", "llama3.1", "llama3", "mistral"}

var errNoModels = errors.New("ollama: no models installed")

// LLMConfig selects the server and model. Timeout is the ceiling for any
// request; GenerateOptions.Timeout narrows single calls.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls /api/generate without streaming. Ping may swap the
// configured model for an installed one, so the model is guarded.
type LLMService struct {
	api *apiclient.Client

	mu    sync.RWMutex
	model string
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options *samplerOptions `json:"options,omitempty"`
}

type samplerOptions struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	TopP        float64  `json:"top_p,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewLLMService creates the service without contacting the server.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   apiclient.New("ollama", cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
	}
}

// Generate returns the completion of prompt. Options are only sent when
// at least one is set.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req := generateRequest{Model: s.ModelName(), Prompt: prompt}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || opts.TopP > 0 || len(opts.Stop) > 0 {
		req.Options = &samplerOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			Stop:        opts.Stop,
		}
	}

	var resp generateResponse
	if err := s.api.Post(ctx, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Models lists the installed models by name, tag included.
func (s *LLMService) Models(ctx context.Context) ([]string, error) {
	var tags tagsResponse
	if err := s.api.Get(ctx, "/api/tags", &tags); err != nil {
		return nil, err
	}
	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// Ping checks the server and switches to an installed model when the
// configured one is missing. A server with no models is an error.
func (s *LLMService) Ping(ctx context.Context) error {
	installed, err := s.Models(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	chosen, ok := SelectModel(installed, s.model)
	if !ok {
		return errNoModels
	}
	if chosen != s.model {
		logger.Warn("ollama: model %q not installed, using %q", s.model, chosen)
		s.model = chosen
	}
	return nil
}

// SelectModel picks the wanted model if installed, else the first
// installed member of PreferredModels, else whatever is installed first.
// Names match with or without a ":tag" suffix.
func SelectModel(installed []string, wanted string) (string, bool) {
	if len(installed) == 0 {
		return "", false
	}
	for _, candidate := range append([]string{wanted}, PreferredModels...) {
		for _, name := range installed {
			if name == candidate || family(name) == candidate {
				return name, true
			}
		}
	}
	return installed[0], true
}

func family(model string) string {
	name, _, _ := strings.Cut(model, ":")
	return name
}

// ModelName returns the model in use.
func (s *LLMService) ModelName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
