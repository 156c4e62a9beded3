package rag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-ai/internal/storage"
)

func TestNormalize_Formats(t *testing.T) {
	const body = `{"answer":"很好","evidence":["e1"],"insights":[],"sources":["s1"],"confidence":"高"}`

	tests := []struct {
		name string
		raw  string
	}{
		{"plain", body},
		{"json fence", "结果如下：\n```json\n" + body + "\n```\n以上。"},
		{"bare fence", "```\n" + body + "\n```"},
		{"surrounding prose", "好的，" + body + " 希望有帮助"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ans := Normalize(tt.raw, Disclosure{})
			assert.Equal(t, "很好", ans.Answer)
			assert.Equal(t, []string{"e1"}, ans.Evidence)
			assert.Equal(t, []string{}, ans.TrendAnalysis)
			assert.Equal(t, []string{}, ans.Insights)
			assert.Equal(t, []string{"s1"}, ans.Sources)
			assert.Equal(t, ConfidenceHigh, ans.Confidence)
		})
	}
}

func TestNormalize_Placeholder(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "```json\n{broken\n```", "[1,2,3]"} {
		ans := Normalize(raw, Disclosure{})
		assert.Equal(t, placeholderAnswer, ans.Answer, "raw=%q", raw)
		assert.Equal(t, ConfidenceLow, ans.Confidence)
		assert.Empty(t, ans.Sources)
	}
}

func TestNormalize_ScalarSourcesDropped(t *testing.T) {
	ans := Normalize(`{"answer":"好","evidence":"单条证据","sources":"单日记录: 2025-03-10"}`, Disclosure{})
	assert.Equal(t, []string{"单条证据"}, ans.Evidence)
	assert.NotNil(t, ans.Sources)
	assert.Empty(t, ans.Sources)
}

func TestNormalize_LegacyKeys(t *testing.T) {
	raw := `{"summary":"旧格式","key_insights":"单条","productivity_analysis":["p1"],"improvement_suggestions":null}`

	ans := Normalize(raw, Disclosure{})
	assert.Equal(t, "旧格式", ans.Answer)
	assert.Equal(t, []string{"单条"}, ans.Evidence)
	assert.Equal(t, []string{"p1"}, ans.TrendAnalysis)
	assert.Equal(t, []string{}, ans.Insights)
	assert.Equal(t, ConfidenceMedium, ans.Confidence)
}

func TestNormalize_MissingAnswer(t *testing.T) {
	ans := Normalize(`{"answer":null,"evidence":[1,2.5,true]}`, Disclosure{})
	assert.Equal(t, answerMissing, ans.Answer)
	assert.Equal(t, []string{"1", "2.5", "true"}, ans.Evidence)
}

func TestParseConfidence(t *testing.T) {
	tests := map[any]Confidence{
		"high":   ConfidenceHigh,
		" HIGH ": ConfidenceHigh,
		"高":      ConfidenceHigh,
		"中":      ConfidenceMedium,
		"Low":    ConfidenceLow,
		"低":      ConfidenceLow,
		"maybe":  ConfidenceMedium,
		nil:      ConfidenceMedium,
		7:        ConfidenceMedium,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseConfidence(in), "input %v", in)
	}
}

func TestDisclosureNotes(t *testing.T) {
	d := Disclosure{
		Expanded:       true,
		OriginalWindow: storage.Window{Start: "2025-03-03", End: "2025-03-10"},
		FinalWindow:    storage.Window{Start: "2025-02-01", End: "2025-03-10"},
		LowConfidence:  true,
		Exhausted:      true,
	}
	notes := d.Notes()
	require.Len(t, notes, 3)
	assert.Contains(t, notes[0], "2025-03-03 至 2025-03-10")
	assert.Contains(t, notes[0], "2025-02-01 至 2025-03-10")
	assert.Contains(t, notes[1], "相关性较低")
	assert.Contains(t, notes[2], "多次扩展检索")

	d.Fallback = true
	notes = d.Notes()
	require.Len(t, notes, 3)
	assert.Contains(t, notes[2], "最近的记录", "fallback replaces the exhausted note")

	assert.Empty(t, Disclosure{}.Notes())
}

func TestNormalize_AppendsNotesOnce(t *testing.T) {
	d := Disclosure{
		Expanded:       true,
		OriginalWindow: storage.Window{Start: "2025-03-03", End: "2025-03-10"},
		FinalWindow:    storage.Window{Start: "2025-02-17", End: "2025-03-10"},
		Fallback:       true,
		Exhausted:      true,
	}

	first := Normalize(`{"answer":"答案","evidence":["e"],"sources":["s"],"confidence":"low"}`, d)
	for _, note := range d.Notes() {
		assert.Contains(t, first.Answer, note)
	}

	serialized, err := json.Marshal(first)
	require.NoError(t, err)

	second := Normalize(string(serialized), d)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Evidence, second.Evidence)
	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestDisclosureFor(t *testing.T) {
	assert.Equal(t, Disclosure{}, DisclosureFor(nil, storage.Window{}))

	original := storage.Window{Start: "2025-03-03", End: "2025-03-10"}
	loop := &LoopResult{
		FinalWindow:        storage.Window{Start: "2025-02-17", End: "2025-03-10"},
		SearchExpanded:     true,
		MaxAttemptsReached: true,
		FallbackUsed:       true,
		JudgeConfidence:    ConfidenceLow,
	}
	d := DisclosureFor(loop, original)
	assert.True(t, d.Expanded)
	assert.True(t, d.LowConfidence)
	assert.True(t, d.Exhausted)
	assert.True(t, d.Fallback)
	assert.Equal(t, original, d.OriginalWindow)
	assert.Equal(t, loop.FinalWindow, d.FinalWindow)
}
