package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"time"
	"unicode/utf8"
)

const (
	// ExtractorVersion identifies the embedding text layout.
	// Update this when EmbeddingText changes significantly.
	ExtractorVersion = "v1.0"
	// TokensPerRune is an approximation for token counting (4 chars per token).
	TokensPerRune = 4.0
)

// IndexStats summarizes a reindex run.
type IndexStats struct {
	OwnerID         int64 `json:"owner_id"`
	RecordsTotal    int   `json:"records_total"`
	RecordsEmbedded int   `json:"records_embedded"`
	RecordsSkipped  int   `json:"records_skipped"`
	// SkippedReasons is a breakdown of why records were skipped.
	SkippedReasons map[string]int `json:"skipped_reasons,omitempty"`
	RecordsFailed  int            `json:"records_failed"`
	FailedIDs      []int64        `json:"failed_ids,omitempty"`
	// TokenStats estimates the size of the embedded texts.
	TokenStats TokenStats `json:"token_stats"`
	// IndexVersion is a hash identifying the index build (extractor + embedding model + params).
	IndexVersion string        `json:"index_version"`
	Duration     time.Duration `json:"duration_ns"`
}

// TokenStats contains statistics about estimated token counts.
type TokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

type tally struct {
	total   int
	embeds  int
	skipped map[string]int
	failed  []int64
	tokens  []int
}

func newTally(total int) *tally {
	return &tally{total: total, skipped: make(map[string]int)}
}

func (t *tally) embed(text string) {
	t.embeds++
	t.tokens = append(t.tokens, estimateTokens(text))
}

func (t *tally) skip(reason string) { t.skipped[reason]++ }

func (t *tally) fail(id int64) { t.failed = append(t.failed, id) }

func (t *tally) stats(ownerID int64, modelName string, d time.Duration) *IndexStats {
	skipped := 0
	for _, n := range t.skipped {
		skipped += n
	}
	failed := append([]int64(nil), t.failed...)
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })

	s := &IndexStats{
		OwnerID:         ownerID,
		RecordsTotal:    t.total,
		RecordsEmbedded: t.embeds,
		RecordsSkipped:  skipped,
		RecordsFailed:   len(failed),
		FailedIDs:       failed,
		TokenStats:      computeTokenStats(t.tokens),
		IndexVersion:    IndexVersion(modelName),
		Duration:        d,
	}
	if skipped > 0 {
		s.SkippedReasons = t.skipped
	}
	return s
}

// IndexVersion hashes the extractor version, embedding model and text budget.
func IndexVersion(modelName string) string {
	input := fmt.Sprintf("%s|%s|maxEmbedRunes=%d", ExtractorVersion, modelName, maxEmbedRunes)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits
}

// estimateTokens approximates tokens from rune count, with a minimum of 1.
func estimateTokens(text string) int {
	n := int(math.Round(float64(utf8.RuneCountInString(text)) / TokensPerRune))
	return max(n, 1)
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) TokenStats {
	if len(tokenCounts) == 0 {
		return TokenStats{}
	}

	// Sort for percentile calculation
	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range tokenCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(tokenCounts))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return TokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
