package rag

import (
	"context"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/storage"
)

const fallbackRecent = 5

// Searcher is the per-attempt retrieval step of the loop.
type Searcher interface {
	Search(ctx context.Context, ownerID int64, vec []float32, text string, w storage.Window, topK int) ([]storage.Record, error)
}

// RelevanceJudge decides whether a result set is good enough to answer from.
type RelevanceJudge interface {
	Evaluate(ctx context.Context, query string, records []storage.Record) Verdict
}

// Loop runs search, count gate, judge and expansion until it accepts a result
// set or the policy budget runs out.
type Loop struct {
	search  Searcher
	judge   RelevanceJudge
	records RecordSource
	topK    int
}

// NewLoop creates a Loop.
func NewLoop(search Searcher, judge RelevanceJudge, records RecordSource) *Loop {
	return &Loop{search: search, judge: judge, records: records, topK: defaultTopK}
}

// Run never fails. It always returns what it found, the fallback set, or nothing
// when the owner has no records at all.
func (l *Loop) Run(ctx context.Context, qc QueryContext) LoopResult {
	logger := contextutil.LoggerFromContext(ctx)

	policy := PolicyFor(qc.Intent)
	original := qc.OriginalWindow
	w := original

	var (
		attempts    []Attempt
		last        []storage.Record
		lastVerdict *Verdict
	)

	for attempt := 1; ; {
		recs, err := l.search.Search(ctx, qc.OwnerID, qc.QueryVector, qc.Query, w, l.topK)
		if err != nil {
			logger.WarnContext(ctx, "search attempt failed", "attempt", attempt, "window", w, "error", err)
			recs = nil
		}
		if len(recs) > 0 {
			last = recs
		}

		entry := Attempt{Index: attempt, Window: w, ResultCount: len(recs)}

		if len(recs) >= policy.MinResultsForJudgment {
			v := l.judge.Evaluate(ctx, qc.Query, recs)
			entry.JudgeInvoked = true
			entry.Verdict = &v
			lastVerdict = &v
			if v.CanAnswer {
				entry.Decision = DecisionAccept
				attempts = append(attempts, entry)
				logger.InfoContext(ctx, "retrieval accepted", "attempt", attempt, "window", w, "results", len(recs), "confidence", v.Confidence)
				return LoopResult{
					Records:         recs,
					FinalWindow:     w,
					Attempts:        attempts,
					SearchExpanded:  w.Start != original.Start,
					JudgeConfidence: v.Confidence,
					JudgeReason:     v.Reason,
				}
			}
		}

		next, ok := expandWindow(policy, original, attempt+1)
		if !ok {
			attempts = append(attempts, entry)
			break
		}
		entry.Decision = DecisionExpand
		attempts = append(attempts, entry)
		logger.InfoContext(ctx, "expanding window", "attempt", attempt, "results", len(recs), "judged", entry.JudgeInvoked, "next_window", next)
		attempt++
		w = next
	}

	result := LoopResult{
		FinalWindow:        w,
		Attempts:           attempts,
		SearchExpanded:     w.Start != original.Start,
		MaxAttemptsReached: true,
	}
	if lastVerdict != nil {
		result.JudgeConfidence = lastVerdict.Confidence
		result.JudgeReason = lastVerdict.Reason
	}
	final := &result.Attempts[len(result.Attempts)-1]

	if len(last) > 0 {
		final.Decision = DecisionExhausted
		result.Records = last
		logger.InfoContext(ctx, "retrieval exhausted", "attempts", len(attempts), "results", len(last))
		return result
	}

	final.Decision = DecisionFallback
	result.FallbackUsed = true
	recent, err := l.records.FetchRecent(ctx, qc.OwnerID, fallbackRecent)
	if err != nil {
		logger.WarnContext(ctx, "fallback fetch failed", "error", err)
		recent = nil
	}
	result.Records = recent
	logger.InfoContext(ctx, "retrieval fallback", "attempts", len(attempts), "results", len(recent))
	return result
}

// expandWindow returns the window for the given 1-based attempt. The start is
// an absolute offset from the original start; the end never moves. It reports
// false when the attempt budget or range cap is exceeded, or when the original
// window has no start to move.
func expandWindow(p Policy, original storage.Window, attempt int) (storage.Window, bool) {
	if original.Start == "" {
		return storage.Window{}, false
	}
	if attempt > p.MaxAttempts || attempt-1 >= len(p.ExpansionSteps) {
		return storage.Window{}, false
	}

	start := shiftDate(original.Start, -p.ExpansionSteps[attempt-1])
	if original.End != "" && daysBetween(start, original.End) > p.MaxTotalRangeDays {
		return storage.Window{}, false
	}
	return storage.Window{Start: start, End: original.End}, true
}
