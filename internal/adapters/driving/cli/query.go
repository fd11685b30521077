package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

var (
	queryLimit int
	queryJSON  bool
	queryPack  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the knowledge base",
	Long: `Performs hybrid retrieval over the current project.
Combines semantic (vector) and keyword (BM25) search, merges the ranked
lists and renders a context pack ready for a downstream prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 8, "maximum number of chunks")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().BoolVar(&queryPack, "pack", false, "print the rendered context pack only")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	result, err := retrievalService.Retrieve(context.Background(), projectID, query, queryLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryPack {
		cmd.Println(result.ContextPack)
		return nil
	}
	if queryJSON {
		return outputQueryJSON(cmd, result)
	}
	return outputQueryTable(cmd, result)
}

func outputQueryJSON(cmd *cobra.Command, result *domain.RetrievalResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, result *domain.RetrievalResult) error {
	if len(result.Chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, chunk := range result.Chunks {
		cmd.Printf("  [%d] %s (%.3f, %s)\n", i+1, chunk.ChunkID, chunk.Score, chunk.Source)
		if len(chunk.HeadingPath) > 0 {
			cmd.Printf("      %s\n", strings.Join(chunk.HeadingPath, " > "))
		}
		cmd.Printf("      %s\n", snippet(chunk.Text))
		cmd.Println()
	}
	return nil
}

// snippet returns the first line of the passage, capped for display.
func snippet(text string) string {
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	const maxLen = 120
	if len(line) > maxLen {
		line = line[:maxLen] + "..."
	}
	return line
}
