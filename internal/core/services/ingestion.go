package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driving"
	"github.com/lexikon-labs/lexikon/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// DefaultMaxSourceBytes is the payload size ceiling (10 MiB).
const DefaultMaxSourceBytes = 10 << 20

// IngestionService runs the ingestion pipeline:
// normalise, chunk, embed, persist.
type IngestionService struct {
	assetStore     driven.AssetStore
	normalisers    driven.NormaliserRegistry
	pipeline       driven.PostProcessorPipeline
	fetcher        driven.SourceFetcher
	embedding      driven.EmbeddingService
	maxSourceBytes int64
}

// NewIngestionService creates a new ingestion service.
// The fetcher is required only for URL sources; the embedding service is
// optional (nil disables inline embedding; chunks await a backfill pass).
func NewIngestionService(
	assetStore driven.AssetStore,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	fetcher driven.SourceFetcher,
	embedding driven.EmbeddingService,
) *IngestionService {
	return &IngestionService{
		assetStore:     assetStore,
		normalisers:    normalisers,
		pipeline:       pipeline,
		fetcher:        fetcher,
		embedding:      embedding,
		maxSourceBytes: DefaultMaxSourceBytes,
	}
}

// SetMaxSourceBytes overrides the payload size ceiling.
func (s *IngestionService) SetMaxSourceBytes(limit int64) {
	if limit > 0 {
		s.maxSourceBytes = limit
	}
}

// Ingest runs the full pipeline for one raw source.
func (s *IngestionService) Ingest(ctx context.Context, raw domain.RawSource) (*driving.IngestResult, error) {
	if err := s.validate(&raw); err != nil {
		return nil, err
	}

	logger.Section("Ingestion")
	logger.Debug("Project: %s, kind: %s, type: %s", raw.ProjectID, raw.Kind, raw.DeclaredType)

	// URL sources are fetched first; the result is always HTML.
	if raw.Kind == domain.SourceKindURL {
		logger.Debug("Fetching %s", raw.URI)
		payload, err := s.fetcher.Fetch(ctx, raw.URI)
		if err != nil {
			return nil, err
		}
		raw.Payload = payload
		raw.DeclaredType = domain.AssetTypeHTML
	}

	if int64(len(raw.Payload)) > s.maxSourceBytes {
		return nil, fmt.Errorf("%w: payload is %d bytes, limit %d",
			domain.ErrTooLarge, len(raw.Payload), s.maxSourceBytes)
	}

	normaliser, err := s.normalisers.ForType(raw.DeclaredType)
	if err != nil {
		return nil, err
	}

	result, err := normaliser.Normalise(ctx, &raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("Normalised to %d bytes of markdown", len(result.Markdown))

	// Dedup by content hash before creating anything.
	hash := domain.HashContent(result.Markdown)
	if existing, err := s.assetStore.GetAssetByHash(ctx, raw.ProjectID, hash); err == nil {
		return s.existingResult(ctx, existing)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	title := raw.Title
	if title == "" {
		title = result.Title
	}

	asset := &domain.Asset{
		ID:        uuid.NewString(),
		ProjectID: raw.ProjectID,
		Type:      raw.DeclaredType,
		Title:     title,
		Markdown:  result.Markdown,
		Hash:      hash,
		CreatedAt: time.Now().UTC(),
	}

	chunks, err := s.pipeline.Process(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("chunking: %w", err)
	}
	logger.Debug("Chunked into %d passages", len(chunks))

	embedded := s.embedChunks(ctx, chunks)

	if err := s.assetStore.SaveAssetWithChunks(ctx, asset, chunks); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a race with a concurrent identical ingestion; the
			// winner's asset is the canonical one.
			logger.Debug("Concurrent ingestion won the hash race, reusing its asset")
			existing, lookupErr := s.assetStore.GetAssetByHash(ctx, raw.ProjectID, hash)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return s.existingResult(ctx, existing)
		}
		return nil, err
	}

	logger.Info("Ingested asset %s (%d chunks, embedded=%t)", asset.ID, len(chunks), embedded)

	return &driving.IngestResult{
		AssetID:    asset.ID,
		ChunkCount: len(chunks),
		IsNew:      true,
		Embedded:   embedded,
	}, nil
}

// validate fails fast on malformed requests, before any side effects.
func (s *IngestionService) validate(raw *domain.RawSource) error {
	if raw.ProjectID == "" {
		return fmt.Errorf("%w: project ID is required", domain.ErrValidation)
	}

	switch raw.Kind {
	case domain.SourceKindURL:
		if raw.URI == "" {
			return fmt.Errorf("%w: URL sources require a URI", domain.ErrValidation)
		}
		if s.fetcher == nil {
			return fmt.Errorf("%w: no fetcher configured for URL sources", domain.ErrValidation)
		}
		return nil
	case domain.SourceKindText, domain.SourceKindFile:
		if len(raw.Payload) == 0 {
			return fmt.Errorf("%w: empty payload", domain.ErrValidation)
		}
		if !raw.DeclaredType.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedType, raw.DeclaredType)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown source kind %q", domain.ErrValidation, raw.Kind)
	}
}

// embedChunks attaches embeddings in place. Failures degrade: the
// chunks persist without vectors and a later backfill pass fills them
// in. Reports whether embedding succeeded.
func (s *IngestionService) embedChunks(ctx context.Context, chunks []domain.Chunk) bool {
	if s.embedding == nil || len(chunks) == 0 {
		return false
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	embeddings, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Embedding failed, persisting without vectors: %v", err)
		return false
	}
	if len(embeddings) != len(chunks) {
		logger.Warn("Embedding count mismatch (%d vectors for %d chunks), persisting without vectors",
			len(embeddings), len(chunks))
		return false
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
		chunks[i].HasEmbedding = true
	}
	return true
}

// existingResult reports a dedup hit for an already-stored asset.
func (s *IngestionService) existingResult(ctx context.Context, asset *domain.Asset) (*driving.IngestResult, error) {
	count, err := s.assetStore.CountChunks(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Content already ingested as asset %s (%d chunks)", asset.ID, count)

	return &driving.IngestResult{
		AssetID:    asset.ID,
		ChunkCount: count,
		IsNew:      false,
		Embedded:   false,
	}, nil
}
