package driving

import (
	"context"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// IngestionService turns raw sources into stored assets and chunks.
type IngestionService interface {
	// Ingest runs the full pipeline: normalise, chunk, embed, persist.
	// Re-ingesting byte-identical normalised content returns the existing
	// asset with IsNew=false and leaves the chunk set untouched.
	Ingest(ctx context.Context, raw domain.RawSource) (*IngestResult, error)
}

// IngestResult reports the outcome of one ingestion.
type IngestResult struct {
	// AssetID is the stored (or pre-existing) asset.
	AssetID string

	// ChunkCount is the number of chunks derived from the asset.
	ChunkCount int

	// IsNew is false when the content hash matched an existing asset.
	IsNew bool

	// Embedded is false when embedding was skipped or failed; the
	// chunks await a backfill pass.
	Embedded bool
}
