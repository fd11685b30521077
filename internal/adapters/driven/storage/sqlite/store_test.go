package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testAsset(projectID, markdown string) *domain.Asset {
	return &domain.Asset{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Type:      domain.AssetTypeMarkdown,
		Title:     "Test Asset",
		Markdown:  markdown,
		Hash:      domain.HashContent(markdown),
		CreatedAt: time.Now().UTC(),
	}
}

func testChunk(asset *domain.Asset, position int, text string) domain.Chunk {
	return domain.Chunk{
		ID:          uuid.NewString(),
		ProjectID:   asset.ProjectID,
		AssetID:     asset.ID,
		ChunkID:     domain.StableChunkID(asset.ID, position, text),
		Text:        text,
		TokenCount:  10,
		Section:     "Introduction",
		HeadingPath: []string{"Introduction"},
		Position:    position,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Contains(t, store.Path(), "lexikon.db")
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()
}

func TestSaveAssetWithChunks_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	ctx := context.Background()

	asset := testAsset("proj-1", "# Title\n\nSome content.")
	chunks := []domain.Chunk{
		testChunk(asset, 0, "first passage"),
		testChunk(asset, 1, "second passage"),
	}

	require.NoError(t, assets.SaveAssetWithChunks(ctx, asset, chunks))

	got, err := assets.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, got.ID)
	assert.Equal(t, asset.Hash, got.Hash)
	assert.Equal(t, domain.AssetTypeMarkdown, got.Type)

	gotChunks, err := assets.GetChunks(ctx, asset.ID)
	require.NoError(t, err)
	require.Len(t, gotChunks, 2)
	assert.Equal(t, "first passage", gotChunks[0].Text)
	assert.Equal(t, 1, gotChunks[1].Position)
	assert.Equal(t, []string{"Introduction"}, gotChunks[0].HeadingPath)
	assert.False(t, gotChunks[0].HasEmbedding)

	count, err := assets.CountChunks(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSaveAssetWithChunks_DuplicateHash(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	ctx := context.Background()

	first := testAsset("proj-1", "same content")
	require.NoError(t, assets.SaveAssetWithChunks(ctx, first, nil))

	second := testAsset("proj-1", "same content")
	err := assets.SaveAssetWithChunks(ctx, second, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Same hash in a different project is fine.
	other := testAsset("proj-2", "same content")
	assert.NoError(t, assets.SaveAssetWithChunks(ctx, other, nil))
}

func TestGetAssetByHash(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	ctx := context.Background()

	asset := testAsset("proj-1", "lookup me")
	require.NoError(t, assets.SaveAssetWithChunks(ctx, asset, nil))

	got, err := assets.GetAssetByHash(ctx, "proj-1", asset.Hash)
	require.NoError(t, err)
	assert.Equal(t, asset.ID, got.ID)

	_, err = assets.GetAssetByHash(ctx, "proj-2", asset.Hash)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAsset_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AssetStore().GetAsset(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAssets_ScopedToProject(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	ctx := context.Background()

	require.NoError(t, assets.SaveAssetWithChunks(ctx, testAsset("proj-1", "a"), nil))
	require.NoError(t, assets.SaveAssetWithChunks(ctx, testAsset("proj-1", "b"), nil))
	require.NoError(t, assets.SaveAssetWithChunks(ctx, testAsset("proj-2", "c"), nil))

	listed, err := assets.ListAssets(ctx, "proj-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	listed, err = assets.ListAssets(ctx, "proj-3")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUpdateChunkEmbedding(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	ctx := context.Background()

	asset := testAsset("proj-1", "embed me")
	chunk := testChunk(asset, 0, "embed me")
	require.NoError(t, assets.SaveAssetWithChunks(ctx, asset, []domain.Chunk{chunk}))

	missing, err := assets.ChunksMissingEmbeddings(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, missing, 1)

	embedding := []float32{0.1, 0.2, 0.3}
	require.NoError(t, assets.UpdateChunkEmbedding(ctx, chunk.ChunkID, embedding))

	embedded, err := assets.ChunksWithEmbeddings(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, embedded, 1)
	assert.True(t, embedded[0].HasEmbedding)
	assert.Equal(t, embedding, embedded[0].Embedding)

	missing, err = assets.ChunksMissingEmbeddings(ctx, "proj-1")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestUpdateChunkEmbedding_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.AssetStore().UpdateChunkEmbedding(context.Background(), "missing", []float32{1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAsset_CascadesToChunks(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	search := store.SearchEngine()
	ctx := context.Background()

	asset := testAsset("proj-1", "delete me")
	chunk := testChunk(asset, 0, "uniqueterm passage")
	require.NoError(t, assets.SaveAssetWithChunks(ctx, asset, []domain.Chunk{chunk}))

	hits, err := search.Search(ctx, "proj-1", "uniqueterm", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	require.NoError(t, assets.DeleteAsset(ctx, asset.ID))

	_, err = assets.GetAsset(ctx, asset.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := assets.CountChunks(ctx, asset.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// FTS rows are removed by the delete trigger.
	hits, err = search.Search(ctx, "proj-1", "uniqueterm", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_RanksByRelevance(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	search := store.SearchEngine()
	ctx := context.Background()

	asset := testAsset("proj-1", "search corpus")
	chunks := []domain.Chunk{
		testChunk(asset, 0, "database connection pooling and database transactions"),
		testChunk(asset, 1, "a passage that mentions database once among many other words here"),
		testChunk(asset, 2, "nothing relevant in this passage at all"),
	}
	require.NoError(t, assets.SaveAssetWithChunks(ctx, asset, chunks))

	hits, err := search.Search(ctx, "proj-1", "database", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// The chunk with two mentions ranks first; scores are higher-is-better.
	assert.Equal(t, chunks[0].ChunkID, hits[0].ChunkID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Equal(t, []string{"Introduction"}, hits[0].HeadingPath)
}

func TestSearch_ScopedToProject(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	search := store.SearchEngine()
	ctx := context.Background()

	assetA := testAsset("proj-1", "a")
	require.NoError(t, assets.SaveAssetWithChunks(ctx, assetA,
		[]domain.Chunk{testChunk(assetA, 0, "shared keyword")}))

	assetB := testAsset("proj-2", "b")
	require.NoError(t, assets.SaveAssetWithChunks(ctx, assetB,
		[]domain.Chunk{testChunk(assetB, 0, "shared keyword")}))

	hits, err := search.Search(ctx, "proj-1", "keyword", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, domain.StableChunkID(assetA.ID, 0, "shared keyword"), hits[0].ChunkID)
}

func TestSearch_TruncatesToK(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	search := store.SearchEngine()
	ctx := context.Background()

	asset := testAsset("proj-1", "many matches")
	var chunks []domain.Chunk
	for i := 0; i < 5; i++ {
		chunks = append(chunks, testChunk(asset, i, "repeated term in every passage"))
	}
	require.NoError(t, assets.SaveAssetWithChunks(ctx, asset, chunks))

	hits, err := search.Search(ctx, "proj-1", "repeated", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearch_EmptyQuery(t *testing.T) {
	store := newTestStore(t)

	hits, err := store.SearchEngine().Search(context.Background(), "proj-1", "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_QuotesSanitised(t *testing.T) {
	store := newTestStore(t)
	assets := store.AssetStore()
	search := store.SearchEngine()
	ctx := context.Background()

	asset := testAsset("proj-1", "quoted")
	require.NoError(t, assets.SaveAssetWithChunks(ctx, asset,
		[]domain.Chunk{testChunk(asset, 0, "resilient passage")}))

	// FTS syntax characters in user input must not break the query.
	hits, err := search.Search(ctx, "proj-1", `"resilient" AND NOT (syntax`, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}

func TestBuildMatchQuery(t *testing.T) {
	assert.Equal(t, `"hello"`, buildMatchQuery("hello"))
	assert.Equal(t, `"hello" OR "world"`, buildMatchQuery("hello world"))
	assert.Equal(t, `"quoted"`, buildMatchQuery(`"quoted"`))
	assert.Equal(t, "", buildMatchQuery("   "))
}
