package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
	"github.com/lexikon-labs/lexikon/internal/core/ports/driving"
	"github.com/lexikon-labs/lexikon/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Hybrid merge weights. Fixed policy, not query-adaptive: per-set
// min-max normalisation, then a 0.6/0.4 weighted sum with additive
// combination on overlap.
const (
	vectorWeight  = 0.6
	lexicalWeight = 0.4
)

// candidate holds a hit from one index before merging.
type candidate struct {
	chunkID     string
	score       float64
	text        string
	headingPath []string
	order       int
}

// RetrievalService answers relevance queries by combining vector and
// lexical search into one ranked list plus a rendered context pack.
type RetrievalService struct {
	searchIndex driven.SearchEngine
	vectorIndex driven.VectorIndex
	embedding   driven.EmbeddingService
}

// NewRetrievalService creates a new retrieval service.
// The vector index and embedding service are optional (nil degrades to
// lexical-only retrieval).
func NewRetrievalService(
	searchIndex driven.SearchEngine,
	vectorIndex driven.VectorIndex,
	embedding driven.EmbeddingService,
) *RetrievalService {
	return &RetrievalService{
		searchIndex: searchIndex,
		vectorIndex: vectorIndex,
		embedding:   embedding,
	}
}

// Retrieve runs both indexes concurrently and merges their results.
// Either index failing degrades its contribution to empty; both sets
// empty yields an empty result, not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, projectID, query string, k int) (*domain.RetrievalResult, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project ID is required", domain.ErrValidation)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrValidation, k)
	}

	logger.Section("Retrieval")
	logger.Debug("Project: %s, query: %q, k: %d", projectID, query, k)

	var vectorHits, lexicalHits []candidate

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		vectorHits = s.vectorSearch(ctx, projectID, query, k)
	}()

	go func() {
		defer wg.Done()
		lexicalHits = s.lexicalSearch(ctx, projectID, query, k)
	}()

	wg.Wait()

	logger.Debug("Vector hits: %d, lexical hits: %d", len(vectorHits), len(lexicalHits))

	chunks := mergeHybrid(vectorHits, lexicalHits, k)
	logger.Info("Merged results: %d", len(chunks))

	return &domain.RetrievalResult{
		Chunks:      chunks,
		ContextPack: BuildContextPack(chunks),
	}, nil
}

// vectorSearch embeds the query and scans the vector index.
// Any failure degrades to an empty contribution.
func (s *RetrievalService) vectorSearch(ctx context.Context, projectID, query string, k int) []candidate {
	if s.vectorIndex == nil || s.embedding == nil {
		logger.Debug("Vector search unavailable, skipping")
		return nil
	}

	embedding, err := s.embedding.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed, vector contribution is empty: %v", err)
		return nil
	}

	hits, err := s.vectorIndex.Search(ctx, projectID, embedding, k)
	if err != nil {
		logger.Warn("Vector search failed, vector contribution is empty: %v", err)
		return nil
	}

	candidates := make([]candidate, len(hits))
	for i, hit := range hits {
		candidates[i] = candidate{
			chunkID:     hit.ChunkID,
			score:       hit.Similarity,
			text:        hit.Text,
			headingPath: hit.HeadingPath,
			order:       i,
		}
	}
	return candidates
}

// lexicalSearch runs the full-text index.
// Any failure degrades to an empty contribution.
func (s *RetrievalService) lexicalSearch(ctx context.Context, projectID, query string, k int) []candidate {
	if s.searchIndex == nil {
		logger.Debug("Lexical search unavailable, skipping")
		return nil
	}

	hits, err := s.searchIndex.Search(ctx, projectID, query, k)
	if err != nil {
		logger.Warn("Lexical search failed, lexical contribution is empty: %v", err)
		return nil
	}

	candidates := make([]candidate, len(hits))
	for i, hit := range hits {
		candidates[i] = candidate{
			chunkID:     hit.ChunkID,
			score:       hit.Score,
			text:        hit.Text,
			headingPath: hit.HeadingPath,
			order:       i,
		}
	}
	return candidates
}

// mergeHybrid normalises each result set to [0,1], weights vector hits
// at 0.6 and lexical hits at 0.4, and sums contributions for chunks
// present in both. Sorted by descending score, ties broken by earliest
// appearance, truncated to k.
func mergeHybrid(vectorHits, lexicalHits []candidate, k int) []domain.ScoredChunk {
	normalise(vectorHits)
	normalise(lexicalHits)

	merged := make(map[string]*domain.ScoredChunk)
	orderOf := make(map[string]int)

	for _, hit := range vectorHits {
		merged[hit.chunkID] = &domain.ScoredChunk{
			ChunkID:     hit.chunkID,
			Score:       hit.score * vectorWeight,
			Text:        hit.text,
			HeadingPath: hit.headingPath,
			Source:      domain.SourceVector,
		}
		orderOf[hit.chunkID] = hit.order
	}

	for _, hit := range lexicalHits {
		if existing, ok := merged[hit.chunkID]; ok {
			existing.Score += hit.score * lexicalWeight
			existing.Source = domain.SourceBoth
			continue
		}
		merged[hit.chunkID] = &domain.ScoredChunk{
			ChunkID:     hit.chunkID,
			Score:       hit.score * lexicalWeight,
			Text:        hit.text,
			HeadingPath: hit.headingPath,
			Source:      domain.SourceLexical,
		}
		orderOf[hit.chunkID] = len(vectorHits) + hit.order
	}

	results := make([]domain.ScoredChunk, 0, len(merged))
	for _, chunk := range merged {
		results = append(results, *chunk)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return orderOf[results[i].ChunkID] < orderOf[results[j].ChunkID]
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// normalise min-max scales scores to [0,1] in place. A set with a
// single distinct score value normalises to 1.0 throughout.
func normalise(hits []candidate) {
	if len(hits) == 0 {
		return
	}

	minScore, maxScore := hits[0].score, hits[0].score
	for _, hit := range hits[1:] {
		if hit.score < minScore {
			minScore = hit.score
		}
		if hit.score > maxScore {
			maxScore = hit.score
		}
	}

	if minScore == maxScore {
		for i := range hits {
			hits[i].score = 1.0
		}
		return
	}

	span := maxScore - minScore
	for i := range hits {
		hits[i].score = (hits[i].score - minScore) / span
	}
}

// BuildContextPack renders the merged chunk list as a single text
// block for a downstream generation step. Each chunk contributes a
// heading line with its identifier and, when the heading-path is
// non-empty, a parenthesised breadcrumb, then a blank line and the
// trimmed passage text. Empty input yields an empty string.
func BuildContextPack(chunks []domain.ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		heading := "[" + chunk.ChunkID + "]"
		if len(chunk.HeadingPath) > 0 {
			heading += " (" + strings.Join(chunk.HeadingPath, " > ") + ")"
		}
		blocks = append(blocks, heading+"\n\n"+strings.TrimSpace(chunk.Text))
	}
	return strings.Join(blocks, "\n\n")
}
