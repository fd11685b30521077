package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Project string `json:"project,omitempty" jsonschema:"project to search (default: default)"`
	Query   string `json:"query" jsonschema:"the query to match against the knowledge base"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 8)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks      []ChunkOutput `json:"chunks"`
	ContextPack string        `json:"context_pack"`
	Count       int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	ChunkID     string   `json:"chunk_id"`
	Score       float64  `json:"score"`
	Source      string   `json:"source"`
	HeadingPath []string `json:"heading_path,omitempty"`
	Text        string   `json:"text"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Project string `json:"project,omitempty" jsonschema:"project to store the content in (default: default)"`
	Title   string `json:"title,omitempty" jsonschema:"optional title for the document"`
	Text    string `json:"text" jsonschema:"markdown content to ingest"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	AssetID    string `json:"asset_id"`
	ChunkCount int    `json:"chunk_count"`
	IsNew      bool   `json:"is_new"`
	Embedded   bool   `json:"embedded"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve relevant passages from the knowledge base using hybrid search",
	}, s.handleRetrieve)

	if s.ports.Ingestion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Store markdown content in the knowledge base",
		}, s.handleIngest)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	project := input.Project
	if project == "" {
		project = "default"
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 8
	}

	result, err := s.ports.Retrieval.Retrieve(ctx, project, input.Query, limit)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks:      make([]ChunkOutput, len(result.Chunks)),
		ContextPack: result.ContextPack,
		Count:       len(result.Chunks),
	}
	for i := range result.Chunks {
		output.Chunks[i] = ChunkOutput{
			ChunkID:     result.Chunks[i].ChunkID,
			Score:       result.Chunks[i].Score,
			Source:      result.Chunks[i].Source,
			HeadingPath: result.Chunks[i].HeadingPath,
			Text:        result.Chunks[i].Text,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingestion == nil {
		return nil, IngestOutput{}, errors.New("ingestion not configured")
	}

	project := input.Project
	if project == "" {
		project = "default"
	}

	result, err := s.ports.Ingestion.Ingest(ctx, domain.RawSource{
		ProjectID:    project,
		Kind:         domain.SourceKindText,
		DeclaredType: domain.AssetTypeMarkdown,
		Title:        input.Title,
		Payload:      []byte(input.Text),
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		AssetID:    result.AssetID,
		ChunkCount: result.ChunkCount,
		IsNew:      result.IsNew,
		Embedded:   result.Embedded,
	}, nil
}
