package domain

// EmbeddingProvider identifies which embedding backend to use.
type EmbeddingProvider string

const (
	// ProviderNone disables embeddings; retrieval is lexical-only.
	ProviderNone EmbeddingProvider = "none"
	// ProviderOpenAI uses the OpenAI embeddings API (or a compatible one).
	ProviderOpenAI EmbeddingProvider = "openai"
	// ProviderOllama uses a local Ollama instance.
	ProviderOllama EmbeddingProvider = "ollama"
)

// IsValid reports whether the provider is a known value.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case ProviderNone, ProviderOpenAI, ProviderOllama:
		return true
	}
	return false
}

// RequiresAPIKey reports whether the provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == ProviderOpenAI
}

// String returns the provider name.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// EmbeddingSettings configures the embedding backend.
type EmbeddingSettings struct {
	Provider EmbeddingProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// ChunkingSettings configures the heading chunker's token bounds.
type ChunkingSettings struct {
	MinTokens int
	MaxTokens int
}

// IngestionSettings configures ingestion-side limits.
type IngestionSettings struct {
	// MaxSourceBytes caps raw payload and fetched page size.
	MaxSourceBytes int64
}

// AppSettings holds all user-configurable application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Chunking  ChunkingSettings
	Ingestion IngestionSettings
}

// DefaultAppSettings returns settings for a fresh installation:
// no embedding provider configured, standard chunk bounds, 10 MiB
// source ceiling.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: ProviderNone,
		},
		Chunking: ChunkingSettings{
			MinTokens: 400,
			MaxTokens: 800,
		},
		Ingestion: IngestionSettings{
			MaxSourceBytes: 10 << 20,
		},
	}
}
