package services

import (
	"context"
	"fmt"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driving"
	"github.com/lexikon-labs/lexikon/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// IndexerService backfills embeddings for chunks that were persisted
// without one, typically after the embedding service was unreachable
// during ingestion. Backfilled chunks are indistinguishable from
// inline-embedded ones.
type IndexerService struct {
	assetStore driven.AssetStore
	embedding  driven.EmbeddingService
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(assetStore driven.AssetStore, embedding driven.EmbeddingService) *IndexerService {
	return &IndexerService{
		assetStore: assetStore,
		embedding:  embedding,
	}
}

// Reindex embeds every chunk in the project that lacks a vector and
// flips its has-embedding flag. Returns the number of chunks indexed.
func (s *IndexerService) Reindex(ctx context.Context, projectID string) (int, error) {
	if projectID == "" {
		return 0, fmt.Errorf("%w: project ID is required", domain.ErrValidation)
	}
	if s.embedding == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Embedding Backfill")

	chunks, err := s.assetStore.ChunksMissingEmbeddings(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		logger.Info("No chunks awaiting embeddings")
		return 0, nil
	}
	logger.Debug("Backfilling %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	embeddings, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("%w: %d vectors for %d chunks",
			domain.ErrEmbedding, len(embeddings), len(chunks))
	}

	indexed := 0
	for i := range chunks {
		if err := s.assetStore.UpdateChunkEmbedding(ctx, chunks[i].ChunkID, embeddings[i]); err != nil {
			return indexed, err
		}
		indexed++
	}

	logger.Info("Backfilled %d embeddings", indexed)
	return indexed, nil
}
