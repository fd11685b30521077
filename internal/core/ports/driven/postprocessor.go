package driven

import (
	"context"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// PostProcessor processes asset content to produce chunks.
// PostProcessors are chained in a pipeline (e.g., chunking, enrichment).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes an asset and returns chunks.
	// If the processor modifies chunks, it receives and returns chunks.
	// If the processor creates chunks (e.g., the chunker), it receives
	// nil and returns new chunks.
	Process(ctx context.Context, asset *domain.Asset, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the asset through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, asset *domain.Asset) ([]domain.Chunk, error)
}
