// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Converts raw source bytes to canonical markdown
//   - NormaliserRegistry: Selects a normaliser by declared asset type
//   - AssetStore: Asset and chunk persistence
//   - SearchEngine: Full-text lexical search over chunk text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, chunks
//     persist without vectors and retrieval is lexical-only.
//   - VectorIndex: Semantic similarity search. Only enabled when an
//     EmbeddingService is configured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
