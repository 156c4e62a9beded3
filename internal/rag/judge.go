package rag

import (
	"context"
	"fmt"
	"strings"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/llm"
	"journal-ai/internal/storage"
)

const (
	judgeMaxRecords = 5
	digestRunes     = 200
)

// Judge asks the model whether a candidate set can answer the query.
type Judge struct {
	llm LLMClient
}

// NewJudge creates a Judge.
func NewJudge(client LLMClient) *Judge {
	return &Judge{llm: client}
}

// Evaluate never fails. No records short-circuits to can_answer=false; a
// failed call or unparsable output yields can_answer=true at medium confidence.
func (j *Judge) Evaluate(ctx context.Context, query string, records []storage.Record) Verdict {
	logger := contextutil.LoggerFromContext(ctx)

	if len(records) == 0 {
		return Verdict{CanAnswer: false, Confidence: ConfidenceLow, Reason: "没有候选记录"}
	}

	user := fmt.Sprintf("用户问题：%s\n\n候选记录（共%d条，展示前%d条）：\n%s",
		query, len(records), min(len(records), judgeMaxRecords), judgeDigest(records))

	raw, err := j.llm.Complete(ctx, judgeSystemPrompt, user, llm.ChatParams{Temperature: 0.1, MaxTokens: 256})
	if err != nil {
		logger.WarnContext(ctx, "judge call failed, accepting", "error", err)
		return defaultVerdict("judge unavailable")
	}

	v, ok := parseVerdict(raw)
	if !ok {
		logger.WarnContext(ctx, "judge output unparsable, accepting", "raw", raw)
		return defaultVerdict("judge output unparsable")
	}
	logger.DebugContext(ctx, "judge verdict", "can_answer", v.CanAnswer, "confidence", v.Confidence, "reason", v.Reason)
	return v
}

func defaultVerdict(reason string) Verdict {
	return Verdict{CanAnswer: true, Confidence: ConfidenceMedium, Reason: reason}
}

func judgeDigest(records []storage.Record) string {
	var b strings.Builder
	for i, r := range records {
		if i == judgeMaxRecords {
			break
		}
		fmt.Fprintf(&b, "%d. 日期: %s | 心情: %s | 内容: %s\n", i+1, r.RecordDate, moodLabel(r.MoodScore), truncateRunes(r.Content, digestRunes))
	}
	return b.String()
}

func parseVerdict(raw string) (Verdict, bool) {
	obj, ok := decodeObject(raw)
	if !ok {
		return Verdict{}, false
	}
	can, ok := parseBool(obj["can_answer"])
	if !ok {
		return Verdict{}, false
	}
	v := Verdict{
		CanAnswer:  can,
		Confidence: parseConfidence(obj["confidence"]),
	}
	if s, ok := obj["reason"].(string); ok {
		v.Reason = s
	}
	if s, ok := obj["missing_info"].(string); ok {
		v.MissingInfo = s
	}
	return v, true
}

func parseBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "是":
			return true, true
		case "false", "no", "否":
			return false, true
		}
	}
	return false, false
}

func moodLabel(score *int) string {
	if score == nil {
		return "未记录"
	}
	return fmt.Sprintf("%d", *score)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
