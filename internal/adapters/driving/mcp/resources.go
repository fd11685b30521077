package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Lexikon resources.
	uriScheme = "lexikon://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for project asset listings.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}/assets",
		Name:        "project-assets",
		Description: "Assets ingested into a specific project",
		MIMEType:    "application/json",
	}, s.handleAssetsResource)

	// Template for asset content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}/assets/{assetId}",
		Name:        "asset-content",
		Description: "Canonical markdown of a specific asset",
		MIMEType:    "text/markdown",
	}, s.handleAssetContentResource)
}

// handleAssetsResource returns the asset listing for a project.
func (s *Server) handleAssetsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Assets == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	projectID, assetID := parseAssetURI(req.Params.URI)
	if projectID == "" || assetID != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	assets, err := s.ports.Assets.ListAssets(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	// Build simplified asset list.
	type assetInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Type  string `json:"type"`
		Hash  string `json:"hash"`
	}

	infos := make([]assetInfo, len(assets))
	for i := range assets {
		infos[i] = assetInfo{
			ID:    assets[i].ID,
			Title: assets[i].Title,
			Type:  string(assets[i].Type),
			Hash:  assets[i].Hash,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling assets: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleAssetContentResource returns the canonical markdown of an asset.
func (s *Server) handleAssetContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Assets == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	projectID, assetID := parseAssetURI(req.Params.URI)
	if projectID == "" || assetID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	asset, err := s.ports.Assets.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	if asset.ProjectID != projectID {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     asset.Markdown,
		}},
	}, nil
}

// parseAssetURI splits a URI like lexikon://projects/{projectId}/assets
// or lexikon://projects/{projectId}/assets/{assetId} into its IDs.
func parseAssetURI(uri string) (projectID, assetID string) {
	const prefix = uriScheme + "projects/"
	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 2 && parts[1] == "assets":
		return parts[0], ""
	case len(parts) == 3 && parts[1] == "assets" && parts[2] != "":
		return parts[0], parts[2]
	default:
		return "", ""
	}
}
