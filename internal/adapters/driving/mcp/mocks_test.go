package mcp

import (
	"context"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result  *domain.RetrievalResult
	err     error
	project string
	query   string
	k       int
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	projectID, query string,
	k int,
) (*domain.RetrievalResult, error) {
	m.project = projectID
	m.query = query
	m.k = k
	if m.result == nil && m.err == nil {
		return &domain.RetrievalResult{}, nil
	}
	return m.result, m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result *driving.IngestResult
	err    error
	raw    domain.RawSource
}

func (m *mockIngestionService) Ingest(_ context.Context, raw domain.RawSource) (*driving.IngestResult, error) {
	m.raw = raw
	return m.result, m.err
}

// mockAssetStore is a partial mock implementation of driven.AssetStore.
type mockAssetStore struct {
	assets []domain.Asset
	asset  *domain.Asset
	err    error
}

func (m *mockAssetStore) SaveAssetWithChunks(_ context.Context, _ *domain.Asset, _ []domain.Chunk) error {
	return m.err
}

func (m *mockAssetStore) GetAsset(_ context.Context, _ string) (*domain.Asset, error) {
	return m.asset, m.err
}

func (m *mockAssetStore) GetAssetByHash(_ context.Context, _, _ string) (*domain.Asset, error) {
	return m.asset, m.err
}

func (m *mockAssetStore) ListAssets(_ context.Context, _ string) ([]domain.Asset, error) {
	return m.assets, m.err
}

func (m *mockAssetStore) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockAssetStore) CountChunks(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockAssetStore) ChunksWithEmbeddings(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockAssetStore) ChunksMissingEmbeddings(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockAssetStore) UpdateChunkEmbedding(_ context.Context, _ string, _ []float32) error {
	return m.err
}

func (m *mockAssetStore) DeleteAsset(_ context.Context, _ string) error {
	return m.err
}
