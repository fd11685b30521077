package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage ingested assets",
	Long:  `List and inspect the assets stored in the current project.`,
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets in the project",
	RunE:  runAssetList,
}

var assetShowCmd = &cobra.Command{
	Use:   "show [asset-id]",
	Short: "Show asset details",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetShow,
}

var assetContentCmd = &cobra.Command{
	Use:   "content [asset-id]",
	Short: "Print the canonical markdown of an asset",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetContent,
}

var assetDeleteCmd = &cobra.Command{
	Use:   "delete [asset-id]",
	Short: "Delete an asset and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetDelete,
}

func init() {
	assetCmd.AddCommand(assetListCmd)
	assetCmd.AddCommand(assetShowCmd)
	assetCmd.AddCommand(assetContentCmd)
	assetCmd.AddCommand(assetDeleteCmd)
	rootCmd.AddCommand(assetCmd)
}

func runAssetList(cmd *cobra.Command, _ []string) error {
	if assetStore == nil {
		return errors.New("asset store not configured")
	}

	assets, err := assetStore.ListAssets(context.Background(), projectID)
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}

	if len(assets) == 0 {
		cmd.Printf("No assets in project %s.\n", projectID)
		return nil
	}

	cmd.Printf("Assets in project %s:\n\n", projectID)
	for i := range assets {
		title := assets[i].Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  %s  [%s]  %s\n", assets[i].ID, assets[i].Type, title)
	}
	return nil
}

func runAssetShow(cmd *cobra.Command, args []string) error {
	if assetStore == nil {
		return errors.New("asset store not configured")
	}

	ctx := context.Background()
	asset, err := lookupAsset(ctx, args[0])
	if err != nil {
		return err
	}

	chunkCount, err := assetStore.CountChunks(ctx, asset.ID)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	cmd.Printf("ID:      %s\n", asset.ID)
	cmd.Printf("Title:   %s\n", asset.Title)
	cmd.Printf("Type:    %s\n", asset.Type)
	cmd.Printf("Hash:    %s\n", asset.Hash)
	cmd.Printf("Chunks:  %d\n", chunkCount)
	cmd.Printf("Created: %s\n", asset.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runAssetContent(cmd *cobra.Command, args []string) error {
	if assetStore == nil {
		return errors.New("asset store not configured")
	}

	asset, err := lookupAsset(context.Background(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(asset.Markdown)
	return nil
}

func runAssetDelete(cmd *cobra.Command, args []string) error {
	if assetStore == nil {
		return errors.New("asset store not configured")
	}

	ctx := context.Background()
	// Resolve first so the delete is project-scoped.
	asset, err := lookupAsset(ctx, args[0])
	if err != nil {
		return err
	}

	if err := assetStore.DeleteAsset(ctx, asset.ID); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	cmd.Printf("Deleted asset %s.\n", asset.ID)
	return nil
}

// lookupAsset fetches an asset and enforces the project scope.
func lookupAsset(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := assetStore.GetAsset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	if asset.ProjectID != projectID {
		return nil, fmt.Errorf("failed to get asset: %w", domain.ErrNotFound)
	}
	return asset, nil
}
