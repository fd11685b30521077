package domain

// Result sources identify which index produced a scored chunk.
const (
	// SourceVector marks a hit produced by the vector index only.
	SourceVector = "vector"
	// SourceLexical marks a hit produced by the lexical index only.
	SourceLexical = "lexical"
	// SourceBoth marks a hit present in both result sets.
	SourceBoth = "both"
)

// ScoredChunk is a single ranked retrieval hit.
type ScoredChunk struct {
	// ChunkID is the stable identifier of the matched chunk.
	ChunkID string

	// Score is the relevance score. After hybrid merging this is the
	// weighted sum of the normalised per-index scores.
	Score float64

	// Text is the passage text.
	Text string

	// HeadingPath locates the passage within its document's outline.
	HeadingPath []string

	// Source is which index produced the hit: vector, lexical or both.
	Source string
}

// RetrievalResult is the output of a hybrid relevance query.
type RetrievalResult struct {
	// Chunks is the merged, ranked result list.
	Chunks []ScoredChunk

	// ContextPack is the rendered text block handed to a downstream
	// generation step. Empty when no relevant content was found.
	ContextPack string
}
