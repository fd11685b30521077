package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, chunking bounds and
ingestion limits.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider for semantic search.

Available providers:
  none   - Lexical search only (no setup required)
  openai - OpenAI embeddings API (requires API key)
  ollama - Local Ollama instance`,
	RunE: runSettingsEmbedding,
}

var (
	chunkMinTokens int
	chunkMaxTokens int
)

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure chunking bounds",
	Long:  `Set the minimum and maximum token budget per chunk.`,
	RunE:  runSettingsChunking,
}

func init() {
	settingsChunkingCmd.Flags().IntVar(&chunkMinTokens, "min", 0, "minimum tokens per chunk")
	settingsChunkingCmd.Flags().IntVar(&chunkMaxTokens, "max", 0, "maximum tokens per chunk")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider)
	if settings.Embedding.Provider != domain.ProviderNone {
		cmd.Printf("  Model: %s\n", settings.Embedding.Model)
		if settings.Embedding.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
		}
		if settings.Embedding.Provider.RequiresAPIKey() {
			if settings.Embedding.APIKey != "" {
				cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
			} else {
				cmd.Printf("  API Key: (not set)\n")
			}
		}
	}
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Min tokens: %d\n", settings.Chunking.MinTokens)
	cmd.Printf("  Max tokens: %d\n", settings.Chunking.MaxTokens)
	cmd.Println()

	cmd.Println("[Ingestion]")
	cmd.Printf("  Max source bytes: %d\n", settings.Ingestion.MaxSourceBytes)

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := []domain.EmbeddingProvider{
		domain.ProviderNone,
		domain.ProviderOpenAI,
		domain.ProviderOllama,
	}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p)
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	var model, apiKey string
	if selected != domain.ProviderNone {
		defaultModel := defaultEmbeddingModel(selected)
		cmd.Printf("Enter model name [%s]: ", defaultModel)
		model = readLine(reader)
		if model == "" {
			model = defaultModel
		}

		if selected.RequiresAPIKey() {
			cmd.Print("Enter API key: ")
			apiKey = readPassword()
			cmd.Println()
			if apiKey == "" {
				return errors.New("API key is required for this provider")
			}
		}
	}

	if err := settingsService.SetEmbeddingProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider configured: %s\n", selected)
	return nil
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if chunkMinTokens <= 0 && chunkMaxTokens <= 0 {
		return errors.New("nothing to change; pass --min and/or --max")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if chunkMinTokens > 0 {
		settings.Chunking.MinTokens = chunkMinTokens
	}
	if chunkMaxTokens > 0 {
		settings.Chunking.MaxTokens = chunkMaxTokens
	}
	if settings.Chunking.MinTokens >= settings.Chunking.MaxTokens {
		return fmt.Errorf("min tokens (%d) must be below max tokens (%d)",
			settings.Chunking.MinTokens, settings.Chunking.MaxTokens)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Chunking bounds set to %d-%d tokens.\n",
		settings.Chunking.MinTokens, settings.Chunking.MaxTokens)
	return nil
}

func defaultEmbeddingModel(provider domain.EmbeddingProvider) string {
	switch provider {
	case domain.ProviderOpenAI:
		return "text-embedding-3-small"
	case domain.ProviderOllama:
		return "nomic-embed-text"
	default:
		return ""
	}
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
