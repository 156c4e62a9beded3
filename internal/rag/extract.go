package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/llm"
)

// RecordFields are the structured fields extracted from a free-text entry.
type RecordFields struct {
	MoodScore          *int
	Reflections        string
	WorkActivities     []string
	PersonalActivities []string
	LearningActivities []string
	HealthActivities   []string
	GoalsAchieved      []string
	ChallengesFaced    []string
}

// Extractor fills structured record fields from entry content.
type Extractor struct {
	llm LLMClient
}

// NewExtractor creates an Extractor.
func NewExtractor(client LLMClient) *Extractor {
	return &Extractor{llm: client}
}

// Extract asks the model for the entry's mood, activities and reflections.
// A failed call or output that is not a JSON object returns an error.
func (x *Extractor) Extract(ctx context.Context, content string) (RecordFields, error) {
	raw, err := x.llm.Complete(ctx, extractSystemPrompt, fmt.Sprintf(extractUserTemplate, content),
		llm.ChatParams{Temperature: 0.2, MaxTokens: 800})
	if err != nil {
		return RecordFields{}, fmt.Errorf("failed to extract record fields: %w", err)
	}

	obj, ok := decodeObject(raw)
	if !ok {
		return RecordFields{}, fmt.Errorf("%w: %q", ErrUnparsableExtraction, truncateRunes(raw, digestRunes))
	}

	fields := RecordFields{
		MoodScore:          parseMood(obj["mood_score"]),
		WorkActivities:     cleanList(obj["work_activities"]),
		PersonalActivities: cleanList(obj["personal_activities"]),
		LearningActivities: cleanList(obj["learning_activities"]),
		HealthActivities:   cleanList(obj["health_activities"]),
		GoalsAchieved:      cleanList(obj["goals_achieved"]),
		ChallengesFaced:    cleanList(obj["challenges_faced"]),
	}
	if s, ok := obj["reflections"].(string); ok {
		fields.Reflections = strings.TrimSpace(s)
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "record fields extracted",
		"mood", moodLabel(fields.MoodScore), "work", len(fields.WorkActivities), "health", len(fields.HealthActivities))
	return fields, nil
}

// parseMood accepts whole numbers from 1 to 10.
func parseMood(v any) *int {
	var f float64
	switch val := v.(type) {
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return nil
		}
		f = n
	case float64:
		f = val
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}
	if f != math.Trunc(f) || f < 1 || f > 10 {
		return nil
	}
	n := int(f)
	return &n
}

func cleanList(v any) []string {
	items := toList(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
