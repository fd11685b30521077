package driven

import "context"

// SearchEngine provides full-text lexical search over chunk text.
// Backed by SQLite FTS5 with BM25 relevance scoring.
//
// An index for the project is a configuration precondition: the store
// creates it alongside the chunk tables, so callers do not handle a
// missing index per query.
type SearchEngine interface {
	// Search performs a keyword search scoped to a project and returns
	// ranked hits. Scores are "higher is better"; ties break by
	// insertion order.
	Search(ctx context.Context, projectID, query string, k int) ([]SearchHit, error)
}

// SearchHit represents a lexical search result.
type SearchHit struct {
	// ChunkID is the stable identifier of the matched chunk.
	ChunkID string

	// Score is the relevance score (BM25-derived, higher is better).
	Score float64

	// Text is the passage text.
	Text string

	// HeadingPath locates the passage within its document's outline.
	HeadingPath []string
}
