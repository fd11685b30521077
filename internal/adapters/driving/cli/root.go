// Package cli provides the cobra command tree that drives the core
// services from the terminal.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driving"
	"github.com/lexikon-labs/lexikon/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services are injected by main before Execute.
var (
	ingestionService driving.IngestionService
	retrievalService driving.RetrievalService
	indexerService   driving.IndexerService
	settingsService  driving.SettingsService
	assetStore       driven.AssetStore
)

var (
	verbose   bool
	projectID string
)

var rootCmd = &cobra.Command{
	Use:   "lexikon",
	Short: "Project-scoped knowledge base with hybrid retrieval",
	Long: `Lexikon ingests documents into a project-scoped knowledge base and
answers queries with hybrid retrieval: semantic vector search combined
with BM25 full-text search, merged into a single ranked context pack.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&projectID, "project", "p", "default", "project scope")
}

// Deps bundles everything the command tree needs.
type Deps struct {
	Ingestion driving.IngestionService
	Retrieval driving.RetrievalService
	Indexer   driving.IndexerService
	Settings  driving.SettingsService
	Assets    driven.AssetStore
}

// Configure injects the services. Call once from main before Execute.
func Configure(deps Deps) {
	ingestionService = deps.Ingestion
	retrievalService = deps.Retrieval
	indexerService = deps.Indexer
	settingsService = deps.Settings
	assetStore = deps.Assets
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
