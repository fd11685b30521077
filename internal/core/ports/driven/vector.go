package driven

import "context"

// VectorIndex provides semantic similarity search operations.
// Backed by an exact cosine scan over the project's stored embeddings.
type VectorIndex interface {
	// Search scores every embedded chunk in the project by cosine
	// similarity against the query vector and returns the top k,
	// sorted descending. Chunks whose embedding dimensionality does
	// not match the query are skipped, not errored.
	Search(ctx context.Context, projectID string, query []float32, k int) ([]VectorHit, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the stable identifier of the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1 for non-negative
	// embedding spaces).
	Similarity float64

	// Text is the passage text.
	Text string

	// HeadingPath locates the passage within its document's outline.
	HeadingPath []string
}
