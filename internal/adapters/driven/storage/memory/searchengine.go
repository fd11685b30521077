package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/lexikon-labs/lexikon/internal/core/ports/driven"
)

// Ensure SearchEngine implements the interface.
var _ driven.SearchEngine = (*SearchEngine)(nil)

// SearchEngine is an in-memory keyword search over an AssetStore's
// chunks. Scoring is term-frequency only; relative ordering is what
// tests care about, not BM25 fidelity.
type SearchEngine struct {
	store *AssetStore
}

// NewSearchEngine creates a search engine over the given store.
func NewSearchEngine(store *AssetStore) *SearchEngine {
	return &SearchEngine{store: store}
}

// Search returns chunks containing any query term, ranked by total
// term frequency.
func (e *SearchEngine) Search(_ context.Context, projectID, query string, k int) ([]driven.SearchHit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	var hits []driven.SearchHit
	for _, chunks := range e.store.chunks {
		for _, chunk := range chunks {
			if chunk.ProjectID != projectID {
				continue
			}

			lower := strings.ToLower(chunk.Text)
			var score float64
			for _, term := range terms {
				score += float64(strings.Count(lower, term))
			}
			if score == 0 {
				continue
			}

			hits = append(hits, driven.SearchHit{
				ChunkID:     chunk.ChunkID,
				Score:       score,
				Text:        chunk.Text,
				HeadingPath: chunk.HeadingPath,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
