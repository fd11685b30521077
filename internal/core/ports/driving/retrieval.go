package driving

import (
	"context"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// RetrievalService answers project-scoped relevance queries.
type RetrievalService interface {
	// Retrieve runs vector and lexical search concurrently, merges the
	// result sets and renders the context pack. Fails fast with
	// domain.ErrValidation on empty projectID, empty query or
	// non-positive k.
	Retrieve(ctx context.Context, projectID, query string, k int) (*domain.RetrievalResult, error)
}

// IndexerService backfills embeddings for chunks persisted without one.
type IndexerService interface {
	// Reindex embeds every chunk in the project that lacks a vector and
	// flips its has-embedding flag. Returns the number of chunks indexed.
	Reindex(ctx context.Context, projectID string) (int, error)
}
