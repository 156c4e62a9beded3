package rag

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/storage"
)

// HybridSearcher runs vector and lexical retrieval over the same window and
// fuses the two rankings.
type HybridSearcher struct {
	vector  VectorRetriever
	lexical LexicalRetriever
	records RecordSource
}

// NewHybridSearcher creates a HybridSearcher. Either retriever may be nil.
func NewHybridSearcher(vector VectorRetriever, lexical LexicalRetriever, records RecordSource) *HybridSearcher {
	return &HybridSearcher{vector: vector, lexical: lexical, records: records}
}

// Search returns up to topK hydrated records in fused order with Score set to
// the fused score. A failing side contributes an empty list. Only hydration
// errors are returned.
func (h *HybridSearcher) Search(ctx context.Context, ownerID int64, vec []float32, text string, w storage.Window, topK int) ([]storage.Record, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		topK = defaultTopK
	}
	depth := topK * 2

	var (
		wg          sync.WaitGroup
		vectorHits  []storage.Hit
		lexicalHits []storage.Hit
	)

	if h.vector != nil && len(vec) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := h.vector.VectorSearch(ctx, ownerID, vec, w, depth)
			if err != nil {
				logger.WarnContext(ctx, "vector search failed", "window", w, "error", err)
				return
			}
			vectorHits = hits
		}()
	}

	if h.lexical != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := h.lexical.LexicalSearch(ctx, ownerID, text, w, depth)
			if errors.Is(err, storage.ErrNoTerms) {
				logger.DebugContext(ctx, "lexical search skipped, no terms")
				return
			}
			if err != nil {
				logger.WarnContext(ctx, "lexical search failed", "window", w, "error", err)
				return
			}
			lexicalHits = hits
		}()
	}

	wg.Wait()

	fused := FuseRRF([][]storage.Hit{vectorHits, lexicalHits}, defaultRRFK, topK)
	logger.DebugContext(ctx, "hybrid search",
		"window", w,
		"vector_hits", len(vectorHits),
		"lexical_hits", len(lexicalHits),
		"fused", len(fused),
	)
	if len(fused) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(fused))
	scores := make(map[int64]float64, len(fused))
	for i, hit := range fused {
		ids[i] = hit.RecordID
		scores[hit.RecordID] = hit.Score
	}

	records, err := h.records.FetchByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate fused records: %w", err)
	}
	for i := range records {
		records[i].Score = scores[records[i].ID]
	}
	return records, nil
}
