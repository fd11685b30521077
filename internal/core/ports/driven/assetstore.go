package driven

import (
	"context"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// AssetStore persists assets and their chunks.
// Backed by SQLite for metadata storage.
type AssetStore interface {
	// SaveAssetWithChunks stores a new asset together with its full chunk
	// set in a single transaction. Observers never see a partial chunk
	// set. Returns domain.ErrAlreadyExists when another writer persisted
	// the same (projectID, hash) first.
	SaveAssetWithChunks(ctx context.Context, asset *domain.Asset, chunks []domain.Chunk) error

	// GetAsset retrieves an asset by ID.
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)

	// GetAssetByHash looks up an asset by its content hash within a project.
	GetAssetByHash(ctx context.Context, projectID, hash string) (*domain.Asset, error)

	// ListAssets returns all assets for a project.
	ListAssets(ctx context.Context, projectID string) ([]domain.Asset, error)

	// GetChunks retrieves all chunks for an asset, ordered by position.
	GetChunks(ctx context.Context, assetID string) ([]domain.Chunk, error)

	// CountChunks returns the number of chunks derived from an asset.
	CountChunks(ctx context.Context, assetID string) (int, error)

	// ChunksWithEmbeddings returns every chunk in the project that
	// carries an embedding. Feeds the vector index scan.
	ChunksWithEmbeddings(ctx context.Context, projectID string) ([]domain.Chunk, error)

	// ChunksMissingEmbeddings returns every chunk in the project whose
	// embedding is absent. Feeds the backfill pass.
	ChunksMissingEmbeddings(ctx context.Context, projectID string) ([]domain.Chunk, error)

	// UpdateChunkEmbedding attaches an embedding to a stored chunk and
	// flips its has-embedding flag.
	UpdateChunkEmbedding(ctx context.Context, chunkID string, embedding []float32) error

	// DeleteAsset removes an asset and cascades to its chunks.
	DeleteAsset(ctx context.Context, id string) error
}
