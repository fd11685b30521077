package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

var (
	ingestTitle string
	ingestType  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path-or-url]",
	Short: "Ingest a document into the knowledge base",
	Long: `Normalises a document to canonical markdown, chunks it and stores it
in the current project. The source is a local file or an http(s) URL.

Supported formats: markdown, html, pdf, docx. The format is inferred
from the file extension; use --type to override.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "title override")
	ingestCmd.Flags().StringVar(&ingestType, "type", "", "source format (markdown, html, pdf, docx)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	source := args[0]

	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	raw, err := buildRawSource(source)
	if err != nil {
		return err
	}
	raw.ProjectID = projectID
	raw.Title = ingestTitle

	result, err := ingestionService.Ingest(context.Background(), raw)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if !result.IsNew {
		cmd.Printf("Already ingested: asset %s (%d chunks)\n", result.AssetID, result.ChunkCount)
		return nil
	}

	cmd.Printf("Ingested asset %s (%d chunks)\n", result.AssetID, result.ChunkCount)
	if !result.Embedded {
		cmd.Println("Embeddings pending; run 'lexikon reindex' once an embedding provider is configured.")
	}
	return nil
}

// buildRawSource classifies the argument as a URL or a local file and
// assembles the payload.
func buildRawSource(source string) (domain.RawSource, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return domain.RawSource{
			Kind: domain.SourceKindURL,
			URI:  source,
		}, nil
	}

	payload, err := os.ReadFile(source)
	if err != nil {
		return domain.RawSource{}, fmt.Errorf("read %s: %w", source, err)
	}

	declared, err := resolveType(source)
	if err != nil {
		return domain.RawSource{}, err
	}

	return domain.RawSource{
		Kind:         domain.SourceKindFile,
		DeclaredType: declared,
		URI:          source,
		Payload:      payload,
	}, nil
}

// resolveType honours the --type flag, falling back to the extension.
func resolveType(path string) (domain.AssetType, error) {
	if ingestType != "" {
		t := domain.AssetType(strings.ToLower(ingestType))
		if !t.Valid() {
			return "", fmt.Errorf("unknown type %q (expected markdown, html, pdf or docx)", ingestType)
		}
		return t, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return domain.AssetTypeMarkdown, nil
	case ".html", ".htm":
		return domain.AssetTypeHTML, nil
	case ".pdf":
		return domain.AssetTypePDF, nil
	case ".docx":
		return domain.AssetTypeDOCX, nil
	case ".txt", "":
		// Plain text passes through the markdown normaliser untouched.
		return domain.AssetTypeMarkdown, nil
	default:
		return "", fmt.Errorf("cannot infer format of %s; use --type", path)
	}
}
