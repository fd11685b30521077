package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Backfill missing embeddings",
	Long: `Embeds every chunk in the current project that was stored without a
vector, typically after ingesting while the embedding provider was
unreachable or unconfigured.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	indexed, err := indexerService.Reindex(context.Background(), projectID)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	if indexed == 0 {
		cmd.Println("All chunks already embedded.")
		return nil
	}
	cmd.Printf("Backfilled embeddings for %d chunks.\n", indexed)
	return nil
}
