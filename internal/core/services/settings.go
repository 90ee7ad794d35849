package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
	"github.com/custodia-labs/curricula/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDocumentPath     = "document.path"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyVectorPath       = "vector.path"
	keyVectorCollection = "vector.collection"
	keyVectorCompress   = "vector.compress"
	keyChunkingMode     = "chunking.mode"
	keyChunkingWorkers  = "chunking.workers"
	keySummaryPolicy    = "chunking.summary_policy"
	keyLeadingSubjects  = "chunking.leading_subjects"
	keyLLMRate          = "chunking.llm_rate"
	keySearchDefaultK   = "search.default_k"
)

// Environment overrides.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOllamaHost    = "OLLAMA_HOST"
	EnvEmbedProvider = "CURRICULA_EMBED_PROVIDER"
	EnvEmbedModel    = "CURRICULA_EMBED_MODEL"
	EnvLLMProvider   = "CURRICULA_LLM_PROVIDER"
	EnvLLMModel      = "CURRICULA_LLM_MODEL"
	EnvDocument      = "CURRICULA_DOCUMENT"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
)

var keyKinds = map[string]keyKind{
	keyDocumentPath:     kindString,
	keyEmbedProvider:    kindString,
	keyEmbedModel:       kindString,
	keyEmbedBaseURL:     kindString,
	keyEmbedAPIKey:      kindString,
	keyLLMProvider:      kindString,
	keyLLMModel:         kindString,
	keyLLMBaseURL:       kindString,
	keyLLMAPIKey:        kindString,
	keyVectorPath:       kindString,
	keyVectorCollection: kindString,
	keyVectorCompress:   kindBool,
	keyChunkingMode:     kindString,
	keyChunkingWorkers:  kindInt,
	keySummaryPolicy:    kindString,
	keyLeadingSubjects:  kindInt,
	keyLLMRate:          kindFloat,
	keySearchDefaultK:   kindInt,
}

// SettingsService resolves application settings from defaults, the config
// store and the environment, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	home        string
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service. home is the
// application directory; the vector store defaults to a directory inside
// it, or to memory when home is empty.
func NewSettingsService(configStore driven.ConfigStore, home string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		home:        home,
		validate:    validator.New(),
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.home != "" {
		defaults.Vector.Path = filepath.Join(s.home, domain.DefaultVectorDirName)
	}

	settings := &domain.AppSettings{
		Document: domain.DocumentSettings{
			Path: s.getString(keyDocumentPath, defaults.Document.Path),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, ""),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getLLMProvider(defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, ""),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Vector: domain.VectorSettings{
			Path:       s.getString(keyVectorPath, defaults.Vector.Path),
			Collection: s.getString(keyVectorCollection, defaults.Vector.Collection),
			Compress:   s.configStore.GetBool(keyVectorCompress),
		},
		Chunking: domain.ChunkingSettings{
			Mode:            s.getMode(defaults.Chunking.Mode),
			Workers:         s.getInt(keyChunkingWorkers, defaults.Chunking.Workers),
			SummaryPolicy:   s.getPolicy(defaults.Chunking.SummaryPolicy),
			LeadingSubjects: s.configStore.GetInt(keyLeadingSubjects),
			LLMRate:         s.getFloat(keyLLMRate, defaults.Chunking.LLMRate),
		},
		Search: domain.SearchSettings{
			DefaultK: s.getInt(keySearchDefaultK, defaults.Search.DefaultK),
		},
	}

	applyEnv(settings)
	fillProviderDefaults(settings)
	return settings, nil
}

// Validate checks settings against their struct constraints.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if settings.Embedding.Provider == domain.AIProviderAnthropic {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	return nil
}

// Set parses value for key, validates the resulting settings and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	default:
		typed = value
	}

	if err := s.checkRaw(key, value); err != nil {
		return err
	}

	staged := &SettingsService{
		configStore: &pendingStore{ConfigStore: s.configStore, key: key, value: typed},
		home:        s.home,
		validate:    s.validate,
	}
	settings, err := staged.Get()
	if err != nil {
		return err
	}
	if err := s.Validate(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the supported dotted keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkRaw rejects enum values that Get would silently replace with defaults.
func (s *SettingsService) checkRaw(key, value string) error {
	switch key {
	case keyEmbedProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid embedding provider %q", domain.ErrInvalidInput, value)
		}
	case keyLLMProvider:
		if value != "" && !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid llm provider %q", domain.ErrInvalidInput, value)
		}
	case keyChunkingMode:
		if !domain.ChunkingMode(value).IsValid() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidMode, value)
		}
	case keySummaryPolicy:
		if !domain.SummaryPolicy(value).IsValid() {
			return fmt.Errorf("%w: invalid summary policy %q", domain.ErrInvalidInput, value)
		}
	}
	return nil
}

// applyEnv overlays environment variables on settings.
func applyEnv(settings *domain.AppSettings) {
	if v := os.Getenv(EnvDocument); v != "" {
		settings.Document.Path = v
	}
	if v := os.Getenv(EnvEmbedProvider); domain.AIProvider(v).IsValid() {
		settings.Embedding.Provider = domain.AIProvider(v)
	}
	if v := os.Getenv(EnvEmbedModel); v != "" {
		settings.Embedding.Model = v
	}
	if v := os.Getenv(EnvLLMProvider); domain.AIProvider(v).IsValid() {
		settings.LLM.Provider = domain.AIProvider(v)
	}
	if v := os.Getenv(EnvLLMModel); v != "" {
		settings.LLM.Model = v
	}

	keys := map[domain.AIProvider]string{
		domain.AIProviderOpenAI:    os.Getenv(EnvOpenAIKey),
		domain.AIProviderAnthropic: os.Getenv(EnvAnthropicKey),
		domain.AIProviderGemini:    os.Getenv(EnvGeminiKey),
	}
	if key := keys[settings.Embedding.Provider]; key != "" && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = key
	}
	if key := keys[settings.LLM.Provider]; key != "" && settings.LLM.APIKey == "" {
		settings.LLM.APIKey = key
	}

	if host := os.Getenv(EnvOllamaHost); host != "" {
		if !strings.Contains(host, "://") {
			host = "http://" + host
		}
		if settings.Embedding.Provider == domain.AIProviderOllama {
			settings.Embedding.BaseURL = host
		}
		if settings.LLM.Provider == domain.AIProviderOllama {
			settings.LLM.BaseURL = host
		}
	}
}

// fillProviderDefaults sets models and Ollama URLs left empty.
func fillProviderDefaults(settings *domain.AppSettings) {
	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = domain.DefaultOllamaURL
	}
	if settings.LLM.Provider == "" {
		return
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = domain.DefaultOllamaURL
	}
}

// getString returns the stored value or defaultVal when empty.
func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if val := s.configStore.GetFloat(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	p := domain.AIProvider(s.configStore.GetString(key))
	if p.IsValid() {
		return p
	}
	return defaultVal
}

// getLLMProvider honours an explicit empty value, which disables the LLM.
func (s *SettingsService) getLLMProvider(defaultVal domain.AIProvider) domain.AIProvider {
	raw, ok := s.configStore.Get(keyLLMProvider)
	if !ok {
		return defaultVal
	}
	if str, isStr := raw.(string); isStr && str == "" {
		return ""
	}
	return s.getProvider(keyLLMProvider, defaultVal)
}

func (s *SettingsService) getMode(defaultVal domain.ChunkingMode) domain.ChunkingMode {
	m := domain.ChunkingMode(s.configStore.GetString(keyChunkingMode))
	if m.IsValid() {
		return m
	}
	return defaultVal
}

func (s *SettingsService) getPolicy(defaultVal domain.SummaryPolicy) domain.SummaryPolicy {
	p := domain.SummaryPolicy(s.configStore.GetString(keySummaryPolicy))
	if p.IsValid() {
		return p
	}
	return defaultVal
}

// pendingStore overlays one uncommitted value on a config store.
type pendingStore struct {
	driven.ConfigStore
	key   string
	value any
}

func (p *pendingStore) Get(key string) (any, bool) {
	if key == p.key {
		return p.value, true
	}
	return p.ConfigStore.Get(key)
}

func (p *pendingStore) GetString(key string) string {
	if key != p.key {
		return p.ConfigStore.GetString(key)
	}
	str, _ := p.value.(string)
	return str
}

func (p *pendingStore) GetInt(key string) int {
	if key != p.key {
		return p.ConfigStore.GetInt(key)
	}
	n, _ := p.value.(int)
	return n
}

func (p *pendingStore) GetFloat(key string) float64 {
	if key != p.key {
		return p.ConfigStore.GetFloat(key)
	}
	f, _ := p.value.(float64)
	return f
}

func (p *pendingStore) GetBool(key string) bool {
	if key != p.key {
		return p.ConfigStore.GetBool(key)
	}
	b, _ := p.value.(bool)
	return b
}
