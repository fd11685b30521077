// Package domain defines the core business entities for Lexikon.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Asset: An ingested source document in canonical markdown form
//   - Chunk: A retrieval-sized passage derived from an asset
//   - RawSource: Opaque payload handed to the ingestion pipeline
//   - ScoredChunk: A ranked retrieval hit
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
