package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API (LLM only).
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns the providers that can produce embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderGemini}
}

// AllLLMProviders returns the providers that can generate text.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini}
}

// DefaultEmbeddingModels maps each embedding provider to its default model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "bge-m3",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels maps each LLM provider to its default model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}

// ChunkingMode selects the chunk strategy used by the pipeline.
type ChunkingMode string

// Available chunking modes.
const (
	// ChunkingModeAuto uses hybrid when the LLM responds, structural otherwise.
	ChunkingModeAuto ChunkingMode = "auto"

	// ChunkingModeStructural uses only the deterministic rule-based builder.
	ChunkingModeStructural ChunkingMode = "structural"

	// ChunkingModeSemantic asks the LLM and falls back to structural output
	// for programs the model returns nothing for.
	ChunkingModeSemantic ChunkingMode = "semantic"

	// ChunkingModeHybrid merges LLM chunks with uncovered structural chunks.
	ChunkingModeHybrid ChunkingMode = "hybrid"
)

// AllChunkingModes returns every chunking mode.
func AllChunkingModes() []ChunkingMode {
	return []ChunkingMode{ChunkingModeAuto, ChunkingModeStructural, ChunkingModeSemantic, ChunkingModeHybrid}
}

// IsValid returns true if the chunking mode is recognised.
func (m ChunkingMode) IsValid() bool {
	switch m {
	case ChunkingModeAuto, ChunkingModeStructural, ChunkingModeSemantic, ChunkingModeHybrid:
		return true
	default:
		return false
	}
}

// RequiresLLM returns true if this mode cannot run without an LLM.
func (m ChunkingMode) RequiresLLM() bool {
	return m == ChunkingModeSemantic || m == ChunkingModeHybrid
}

// String returns the string representation.
func (m ChunkingMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ChunkingMode) Description() string {
	switch m {
	case ChunkingModeAuto:
		return "Auto (hybrid when an LLM is reachable)"
	case ChunkingModeStructural:
		return "Structural (rule-based only)"
	case ChunkingModeSemantic:
		return "Semantic (LLM with structural fallback)"
	case ChunkingModeHybrid:
		return "Hybrid (LLM merged with structural)"
	default:
		return unknownDescription
	}
}

// SummaryPolicy decides when a curriculum_summary chunk is emitted.
type SummaryPolicy string

// Available summary policies.
const (
	// SummaryAlways emits the summary for every valid program.
	SummaryAlways SummaryPolicy = "always"

	// SummaryRequireSemesters emits the summary only when at least one
	// semester with subjects was parsed.
	SummaryRequireSemesters SummaryPolicy = "require_semesters"
)

// IsValid returns true if the policy is recognised.
func (p SummaryPolicy) IsValid() bool {
	return p == SummaryAlways || p == SummaryRequireSemesters
}

// String returns the string representation.
func (p SummaryPolicy) String() string {
	return string(p)
}

// DocumentSettings locates the curriculum document.
type DocumentSettings struct {
	Path string `validate:"required"`
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `validate:"required,oneof=ollama openai gemini"`

	// Model is the embedding model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for cloud providers).
	APIKey string `validate:"required_unless=Provider ollama"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider. Empty disables semantic chunking.
	Provider AIProvider `validate:"omitempty,oneof=ollama openai anthropic gemini"`

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for cloud providers).
	APIKey string `validate:"required_if=Provider openai,required_if=Provider anthropic,required_if=Provider gemini"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorSettings holds vector store configuration.
type VectorSettings struct {
	// Path is the persistence directory. Empty keeps the store in memory.
	Path string

	// Collection is the collection name.
	Collection string `validate:"required"`

	// Compress enables gzip compression of persisted documents.
	Compress bool
}

// ChunkingSettings holds pipeline configuration.
type ChunkingSettings struct {
	Mode          ChunkingMode  `validate:"required,oneof=auto structural semantic hybrid"`
	Workers       int           `validate:"min=1,max=64"`
	SummaryPolicy SummaryPolicy `validate:"required,oneof=always require_semesters"`

	// LeadingSubjects lists the first N subjects of every semester in the
	// curriculum summary. Zero keeps the summary to name and duration.
	LeadingSubjects int `validate:"min=0"`

	// LLMRate is the maximum number of LLM requests per second.
	LLMRate float64 `validate:"gt=0"`
}

// SearchSettings holds query configuration.
type SearchSettings struct {
	DefaultK int `validate:"min=1,max=100"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	Document  DocumentSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Vector    VectorSettings
	Chunking  ChunkingSettings
	Search    SearchSettings
}

// Default setting values.
const (
	DefaultDocumentPath  = "data/documentos/curriculum.md"
	DefaultOllamaURL     = "http://localhost:11434"
	DefaultCollection    = "usc_curriculum"
	DefaultWorkers       = 4
	DefaultLLMRate       = 2.0
	DefaultVectorDirName = "vectorstore"
)

// DefaultAppSettings returns settings with sensible defaults.
// Both AI providers default to a local Ollama instance.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Document: DocumentSettings{Path: DefaultDocumentPath},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
			BaseURL:  DefaultOllamaURL,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModels()[AIProviderOllama],
			BaseURL:  DefaultOllamaURL,
		},
		Vector: VectorSettings{
			Collection: DefaultCollection,
		},
		Chunking: ChunkingSettings{
			Mode:          ChunkingModeAuto,
			Workers:       DefaultWorkers,
			SummaryPolicy: SummaryAlways,
			LLMRate:       DefaultLLMRate,
		},
		Search: SearchSettings{DefaultK: DefaultSearchK},
	}
}
