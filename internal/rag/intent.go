package rag

import (
	"context"
	"strings"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/llm"
)

// Keyword lists for the deterministic fallback, checked in this order.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentToday, []string{"今天", "今日", "today"}},
	{IntentRecent, []string{"过去一周", "上周", "近一周", "一周", "7天", "七天", "本周", "这周", "最近几天", "past week", "last week", "this week"}},
	{IntentTrend, []string{"趋势", "跨日", "多日", "这段时间", "最近一段时间", "生产力", "情绪趋势", "变化", "trend", "over time"}},
}

// Classifier maps a query to an Intent. It never fails.
type Classifier struct {
	llm LLMClient
}

// NewClassifier creates a Classifier. A nil client uses keywords only.
func NewClassifier(client LLMClient) *Classifier {
	return &Classifier{llm: client}
}

// Classify asks the model for a label and falls back to keyword matching
// when the call fails or the output is not exactly one valid label.
func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	logger := contextutil.LoggerFromContext(ctx)

	if c.llm == nil {
		return ClassifyByKeywords(query)
	}

	raw, err := c.llm.Complete(ctx, classifySystemPrompt, "用户问题："+query, llm.ChatParams{
		Temperature: 0.1,
		MaxTokens:   8,
	})
	if err != nil {
		intent := ClassifyByKeywords(query)
		logger.WarnContext(ctx, "intent model call failed, using keywords", "intent", intent, "error", err)
		return intent
	}

	label := Intent(strings.ToLower(strings.TrimSpace(raw)))
	if label.Valid() {
		logger.DebugContext(ctx, "intent classified", "intent", label, "source", "model")
		return label
	}

	intent := ClassifyByKeywords(query)
	logger.WarnContext(ctx, "intent model output invalid, using keywords", "raw", raw, "intent", intent)
	return intent
}

// ClassifyByKeywords is the deterministic substring matcher over the lower-cased query.
func ClassifyByKeywords(query string) Intent {
	q := strings.ToLower(query)
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(q, kw) {
				return group.intent
			}
		}
	}
	return IntentGeneral
}
