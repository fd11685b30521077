package mcp

import (
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server exposes.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers hybrid queries.
	Retrieval driving.RetrievalService

	// Ingestion stores new content.
	Ingestion driving.IngestionService

	// Assets serves asset listings and content.
	Assets driven.AssetStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Ingestion and Assets are optional
	return nil
}
