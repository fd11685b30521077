package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Callers discriminate with
// errors.Is; adapters wrap them with context via fmt.Errorf("...: %w", err).
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates malformed request parameters.
	// Returned immediately, before any side effects.
	ErrValidation = errors.New("invalid request")

	// ErrFormat indicates a malformed or unsupported source document
	// (bad magic bytes, encrypted container, wrong content type).
	// User-correctable; never retried.
	ErrFormat = errors.New("invalid source format")

	// ErrFetch indicates a network failure or timeout fetching a URL
	// source. User-correctable; not automatically retried.
	ErrFetch = errors.New("fetch failed")

	// ErrEmbedding indicates the embedding service failed. Ingestion
	// degrades: chunks persist without vectors and a later backfill
	// pass fills them in.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStorage indicates the underlying store is unavailable or a
	// write failed. Fatal; propagated to the caller.
	ErrStorage = errors.New("storage failure")

	// ErrTooLarge indicates the source payload exceeds the configured
	// size ceiling.
	ErrTooLarge = errors.New("source too large")

	// ErrUnsupportedType indicates an unknown asset type was declared.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates no embedding service is
	// configured. Vector/semantic retrieval is disabled without one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
