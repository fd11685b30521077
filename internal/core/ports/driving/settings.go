package driving

import "github.com/lexikon-labs/lexikon/internal/core/domain"

// SettingsService manages user-configurable application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults for
	// unset keys.
	Get() (*domain.AppSettings, error)

	// Save persists settings to the config store.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures and persists the embedding
	// backend. An empty model selects the provider default.
	SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error
}
