package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure AssetStore implements the interface.
var _ driven.AssetStore = (*AssetStore)(nil)

// AssetStore is an in-memory implementation of driven.AssetStore.
type AssetStore struct {
	mu     sync.RWMutex
	assets map[string]domain.Asset
	chunks map[string][]domain.Chunk
}

// NewAssetStore creates a new in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{
		assets: make(map[string]domain.Asset),
		chunks: make(map[string][]domain.Chunk),
	}
}

// SaveAssetWithChunks stores an asset together with its chunk set.
func (s *AssetStore) SaveAssetWithChunks(_ context.Context, asset *domain.Asset, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assets {
		if existing.ProjectID == asset.ProjectID && existing.Hash == asset.Hash {
			return domain.ErrAlreadyExists
		}
	}

	s.assets[asset.ID] = *asset
	s.chunks[asset.ID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetAsset retrieves an asset by ID.
func (s *AssetStore) GetAsset(_ context.Context, id string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &asset, nil
}

// GetAssetByHash looks up an asset by content hash within a project.
func (s *AssetStore) GetAssetByHash(_ context.Context, projectID, hash string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.assets {
		asset := s.assets[id]
		if asset.ProjectID == projectID && asset.Hash == hash {
			return &asset, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListAssets returns all assets for a project.
func (s *AssetStore) ListAssets(_ context.Context, projectID string) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Asset
	for id := range s.assets {
		asset := s.assets[id]
		if asset.ProjectID == projectID {
			result = append(result, asset)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetChunks retrieves all chunks for an asset, ordered by position.
func (s *AssetStore) GetChunks(_ context.Context, assetID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := append([]domain.Chunk(nil), s.chunks[assetID]...)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})
	return chunks, nil
}

// CountChunks returns the number of chunks derived from an asset.
func (s *AssetStore) CountChunks(_ context.Context, assetID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[assetID]), nil
}

// ChunksWithEmbeddings returns every embedded chunk in the project.
func (s *AssetStore) ChunksWithEmbeddings(_ context.Context, projectID string) ([]domain.Chunk, error) {
	return s.filterChunks(projectID, true), nil
}

// ChunksMissingEmbeddings returns every chunk awaiting an embedding.
func (s *AssetStore) ChunksMissingEmbeddings(_ context.Context, projectID string) ([]domain.Chunk, error) {
	return s.filterChunks(projectID, false), nil
}

// UpdateChunkEmbedding attaches an embedding to a stored chunk.
func (s *AssetStore) UpdateChunkEmbedding(_ context.Context, chunkID string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for assetID, chunks := range s.chunks {
		for i := range chunks {
			if chunks[i].ChunkID == chunkID {
				chunks[i].Embedding = append([]float32(nil), embedding...)
				chunks[i].HasEmbedding = true
				s.chunks[assetID] = chunks
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

// DeleteAsset removes an asset and its chunks.
func (s *AssetStore) DeleteAsset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, id)
	delete(s.chunks, id)
	return nil
}

func (s *AssetStore) filterChunks(projectID string, embedded bool) []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ProjectID == projectID && chunk.HasEmbedding == embedded {
				result = append(result, chunk)
			}
		}
	}
	return result
}
