package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexikon-labs/lexikon/internal/adapters/driven/index/cosine"
	"github.com/lexikon-labs/lexikon/internal/adapters/driven/storage/memory"
	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/services"
	"github.com/lexikon-labs/lexikon/internal/normalisers"
	"github.com/lexikon-labs/lexikon/internal/normalisers/markdown"
	"github.com/lexikon-labs/lexikon/internal/postprocessors"
	"github.com/lexikon-labs/lexikon/internal/postprocessors/chunker"
)

// setupTestServices wires in-memory adapters behind the command tree
// and returns a cleanup that restores the previous wiring.
func setupTestServices(t *testing.T) (*memory.AssetStore, func()) {
	t.Helper()

	store := memory.NewAssetStore()

	registry := normalisers.NewRegistry()
	registry.Register(markdown.New())
	pipeline := postprocessors.NewPipeline(chunker.New())

	oldIngestion := ingestionService
	oldRetrieval := retrievalService
	oldIndexer := indexerService
	oldSettings := settingsService
	oldAssets := assetStore

	Configure(Deps{
		Ingestion: services.NewIngestionService(store, registry, pipeline, nil, nil),
		Retrieval: services.NewRetrievalService(memory.NewSearchEngine(store), cosine.New(store), nil),
		Indexer:   services.NewIndexerService(store, nil),
		Settings:  services.NewSettingsService(memory.NewConfigStore()),
		Assets:    store,
	})

	return store, func() {
		ingestionService = oldIngestion
		retrievalService = oldRetrieval
		indexerService = oldIndexer
		settingsService = oldSettings
		assetStore = oldAssets
	}
}

// execute runs the root command with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// seedStoredAsset ingests a small markdown document into the store.
func seedStoredAsset(t *testing.T, text string) string {
	t.Helper()

	result, err := ingestionService.Ingest(context.Background(), domain.RawSource{
		ProjectID:    "default",
		Kind:         domain.SourceKindText,
		DeclaredType: domain.AssetTypeMarkdown,
		Payload:      []byte(text),
	})
	require.NoError(t, err)
	return result.AssetID
}
