package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Chunk represents a retrieval-sized passage derived from an asset.
// Assets are split into chunks so search results carry only the
// relevant section of a document.
type Chunk struct {
	// ID is the unique storage identifier.
	ID string

	// ProjectID scopes the chunk to a project.
	ProjectID string

	// AssetID links to the owning Asset. Empty for custom passages
	// created outside the ingestion pipeline.
	AssetID string

	// ChunkID is a stable content-derived identifier, distinct from the
	// storage ID. It survives re-ingestion of identical content.
	ChunkID string

	// Text is the passage text, including the re-prefixed heading line.
	Text string

	// TokenCount is the estimated token count of Text.
	TokenCount int

	// Section is the title of the heading this chunk belongs to.
	Section string

	// HeadingPath is the ordered list of ancestor heading titles from the
	// document root to this passage, synthetic root excluded.
	HeadingPath []string

	// Position is the ordinal position within the asset.
	Position int

	// HasEmbedding reports whether Embedding is populated. Chunks
	// persisted during an embedding outage carry false until a
	// backfill pass fills them in.
	HasEmbedding bool

	// Embedding is the vector representation for semantic search.
	Embedding []float32
}

// StableChunkID derives the content-addressed chunk identifier from the
// owning asset, the chunk position and the passage text. Identical content
// always yields the same identifier.
func StableChunkID(assetID string, position int, text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", assetID, position, text)))
	return hex.EncodeToString(sum[:8])
}

// HashContent computes the hex-encoded SHA-256 digest used for asset
// deduplication. The digest is taken over the canonical markdown, so two
// sources that normalise identically share a hash.
func HashContent(markdown string) string {
	sum := sha256.Sum256([]byte(markdown))
	return hex.EncodeToString(sum[:])
}
