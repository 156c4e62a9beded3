package rag

import (
	"sort"

	"journal-ai/internal/storage"
)

const (
	defaultRRFK = 60
	defaultTopK = 10
)

// FuseRRF merges ranked lists with Reciprocal Rank Fusion. The hit at 0-based
// position i of any list earns 1/(k+i); scores accumulate per record id.
// Ties keep first-seen order. k and topK fall back to 60 and 10 when not positive.
func FuseRRF(lists [][]storage.Hit, k, topK int) []storage.Hit {
	if k <= 0 {
		k = defaultRRFK
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	scores := make(map[int64]float64)
	order := make([]int64, 0)
	for _, list := range lists {
		for i, hit := range list {
			if _, seen := scores[hit.RecordID]; !seen {
				order = append(order, hit.RecordID)
			}
			scores[hit.RecordID] += 1.0 / float64(k+i)
		}
	}

	fused := make([]storage.Hit, 0, len(order))
	for _, id := range order {
		fused = append(fused, storage.Hit{RecordID: id, Score: scores[id]})
	}
	sort.SliceStable(fused, func(a, b int) bool {
		return fused[a].Score > fused[b].Score
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused
}
