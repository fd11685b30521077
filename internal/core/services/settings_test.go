package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon-labs/lexikon/internal/adapters/driven/storage/memory"
	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

func TestSettings_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Chunking.MinTokens, settings.Chunking.MinTokens)
	assert.Equal(t, defaults.Chunking.MaxTokens, settings.Chunking.MaxTokens)
	assert.Equal(t, defaults.Ingestion.MaxSourceBytes, settings.Ingestion.MaxSourceBytes)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	in := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.ProviderOllama,
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		Chunking: domain.ChunkingSettings{
			MinTokens: 200,
			MaxTokens: 600,
		},
		Ingestion: domain.IngestionSettings{
			MaxSourceBytes: 5 << 20,
		},
	}
	require.NoError(t, svc.Save(in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOllama, out.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", out.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", out.Embedding.BaseURL)
	assert.Equal(t, 200, out.Chunking.MinTokens)
	assert.Equal(t, 600, out.Chunking.MaxTokens)
	assert.Equal(t, int64(5<<20), out.Ingestion.MaxSourceBytes)
}

func TestSettings_SaveKeepsExistingAPIKey(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetEmbeddingProvider(domain.ProviderOpenAI, "text-embedding-3-small", "sk-test"))

	// Saving with a blank key must not clobber the stored one.
	settings, err := svc.Get()
	require.NoError(t, err)
	settings.Embedding.APIKey = ""
	require.NoError(t, svc.Save(settings))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", out.Embedding.APIKey)
}

func TestSetEmbeddingProvider(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, svc.SetEmbeddingProvider(domain.ProviderOpenAI, "text-embedding-3-small", "sk-test"))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOpenAI, out.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", out.Embedding.Model)
	assert.Equal(t, "sk-test", out.Embedding.APIKey)
}

func TestSetEmbeddingProvider_Validation(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	err := svc.SetEmbeddingProvider(domain.EmbeddingProvider("huggingface"), "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// OpenAI without an API key is rejected.
	err = svc.SetEmbeddingProvider(domain.ProviderOpenAI, "text-embedding-3-small", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Ollama is local and needs no key.
	assert.NoError(t, svc.SetEmbeddingProvider(domain.ProviderOllama, "nomic-embed-text", ""))
}

func TestSettings_IgnoresInvalidStoredProvider(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "not-a-provider"))

	svc := NewSettingsService(store)
	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Embedding.Provider, out.Embedding.Provider)
}
