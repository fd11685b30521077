// Command lexikon is the entry point for the knowledge base CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lexikon-labs/lexikon/internal/adapters/driven/config/file"
	"github.com/lexikon-labs/lexikon/internal/adapters/driven/embedding/ollama"
	"github.com/lexikon-labs/lexikon/internal/adapters/driven/embedding/openai"
	"github.com/lexikon-labs/lexikon/internal/adapters/driven/index/cosine"
	"github.com/lexikon-labs/lexikon/internal/adapters/driven/storage/sqlite"
	"github.com/lexikon-labs/lexikon/internal/adapters/driving/cli"
	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
	"github.com/lexikon-labs/lexikon/internal/core/services"
	"github.com/lexikon-labs/lexikon/internal/fetcher"
	"github.com/lexikon-labs/lexikon/internal/logger"
	"github.com/lexikon-labs/lexikon/internal/normalisers"
	"github.com/lexikon-labs/lexikon/internal/normalisers/docx"
	"github.com/lexikon-labs/lexikon/internal/normalisers/html"
	"github.com/lexikon-labs/lexikon/internal/normalisers/markdown"
	"github.com/lexikon-labs/lexikon/internal/normalisers/pdf"
	"github.com/lexikon-labs/lexikon/internal/postprocessors"
)

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".lexikon")

	configStore, err := file.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close() //nolint:errcheck // Best-effort close on exit
	assetStore := store.AssetStore()

	embedding, err := buildEmbeddingService(settings.Embedding)
	if err != nil {
		return fmt.Errorf("configure embedding provider: %w", err)
	}
	if embedding != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if pingErr := embedding.Ping(pingCtx); pingErr != nil {
			logger.Warn("Embedding provider unreachable, continuing lexical-only: %v", pingErr)
			embedding = nil
		}
		cancel()
	}

	registry := normalisers.NewRegistry()
	registry.Register(markdown.New())
	registry.Register(html.New())
	registry.Register(pdf.New())
	registry.Register(docx.New())

	pipeline, err := buildPipeline(settings.Chunking)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	sourceFetcher := fetcher.New(fetcher.Config{
		MaxBytes: settings.Ingestion.MaxSourceBytes,
	})

	ingestionService := services.NewIngestionService(assetStore, registry, pipeline, sourceFetcher, embedding)
	if settings.Ingestion.MaxSourceBytes > 0 {
		ingestionService.SetMaxSourceBytes(settings.Ingestion.MaxSourceBytes)
	}

	retrievalService := services.NewRetrievalService(store.SearchEngine(), cosine.New(assetStore), embedding)
	indexerService := services.NewIndexerService(assetStore, embedding)

	cli.Configure(cli.Deps{
		Ingestion: ingestionService,
		Retrieval: retrievalService,
		Indexer:   indexerService,
		Settings:  settingsService,
		Assets:    assetStore,
	})
	cli.SetVersion(version)

	if embedding == nil {
		logger.Debug("No embedding provider configured, retrieval is lexical-only")
	}

	return cli.Execute()
}

// buildEmbeddingService constructs the configured provider, or nil when
// embeddings are disabled.
func buildEmbeddingService(cfg domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.ProviderNone:
		return nil, nil
	case domain.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// buildPipeline assembles the post-processing pipeline from settings.
func buildPipeline(cfg domain.ChunkingSettings) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkerProc, err := registry.Build("chunker", map[string]any{
		"min_tokens": cfg.MinTokens,
		"max_tokens": cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return postprocessors.NewPipeline(chunkerProc), nil
}
