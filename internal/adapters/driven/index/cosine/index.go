// Package cosine provides an exact cosine-similarity scan over stored
// chunk embeddings. Project corpora are small enough that a full scan
// stays fast without an approximate-nearest-neighbour structure.
package cosine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index scores chunks by cosine similarity against their stored
// embeddings, reading them through an AssetStore.
type Index struct {
	assets driven.AssetStore
}

// New creates an index over the given asset store.
func New(assets driven.AssetStore) *Index {
	return &Index{assets: assets}
}

// Search scans every embedded chunk in the project and returns the k
// most similar to the query vector, sorted descending. Chunks whose
// embedding dimensionality differs from the query's are skipped.
func (idx *Index) Search(ctx context.Context, projectID string, query []float32, k int) ([]driven.VectorHit, error) {
	chunks, err := idx.assets.ChunksWithEmbeddings(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading embedded chunks: %w", err)
	}

	var hits []driven.VectorHit
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(query) {
			continue
		}

		hits = append(hits, driven.VectorHit{
			ChunkID:     chunk.ChunkID,
			Similarity:  CosineSimilarity(query, chunk.Embedding),
			Text:        chunk.Text,
			HeadingPath: chunk.HeadingPath,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// CosineSimilarity computes the cosine of the angle between two
// equal-length vectors: dot product over the product of L2 norms.
// A zero-norm vector yields 0.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
