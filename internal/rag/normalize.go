package rag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"journal-ai/internal/storage"
)

const (
	answerMissing     = "无法回答"
	placeholderAnswer = "解析失败，请重新生成结构化结果"
)

// Disclosure flags the degradations the answer must admit to.
type Disclosure struct {
	Expanded       bool
	OriginalWindow storage.Window
	FinalWindow    storage.Window
	LowConfidence  bool
	Exhausted      bool
	Fallback       bool
}

// DisclosureFor derives the disclosure flags from a loop outcome.
func DisclosureFor(loop *LoopResult, original storage.Window) Disclosure {
	if loop == nil {
		return Disclosure{}
	}
	return Disclosure{
		Expanded:       loop.SearchExpanded,
		OriginalWindow: original,
		FinalWindow:    loop.FinalWindow,
		LowConfidence:  loop.JudgeConfidence == ConfidenceLow,
		Exhausted:      loop.MaxAttemptsReached,
		Fallback:       loop.FallbackUsed,
	}
}

// Notes renders one sentence per flag, in a fixed order.
func (d Disclosure) Notes() []string {
	var notes []string
	if d.Expanded {
		notes = append(notes, fmt.Sprintf("（注：原始时间范围 %s 内记录不足，已扩展至 %s 进行检索。）",
			windowLabel(d.OriginalWindow), windowLabel(d.FinalWindow)))
	}
	if d.LowConfidence {
		notes = append(notes, "（注：检索到的记录与问题的相关性较低，回答仅供参考。）")
	}
	if d.Fallback {
		notes = append(notes, "（注：时间范围内未找到相关记录，以下基于最近的记录回答。）")
	} else if d.Exhausted {
		notes = append(notes, "（注：已进行多次扩展检索，仍未找到充分的相关记录。）")
	}
	return notes
}

func windowLabel(w storage.Window) string {
	if w.Unbounded() {
		return "全部记录"
	}
	start, end := w.Start, w.End
	if start == "" {
		start = "最早"
	}
	if end == "" {
		end = "至今"
	}
	return start + " 至 " + end
}

// Normalize parses generator output into a FinalAnswer and appends the
// disclosure notes. It never fails; unparsable input yields a low-confidence
// placeholder. Notes already present are not appended again, so normalizing
// a serialized result a second time is a no-op.
func Normalize(raw string, d Disclosure) FinalAnswer {
	var ans FinalAnswer
	if obj, ok := decodeObject(raw); ok {
		ans = answerFromObject(obj)
	} else {
		ans = placeholder()
	}

	for _, note := range d.Notes() {
		if !strings.Contains(ans.Answer, note) {
			ans.Answer += note
		}
	}
	return ans
}

func placeholder() FinalAnswer {
	return FinalAnswer{
		Answer:        placeholderAnswer,
		Evidence:      []string{"重新生成更结构化的结果"},
		TrendAnalysis: []string{"修复结果格式"},
		Insights:      []string{"检查数据格式"},
		Sources:       []string{},
		Confidence:    ConfidenceLow,
	}
}

func answerFromObject(obj map[string]any) FinalAnswer {
	keys := struct{ answer, evidence, trend, insights string }{"answer", "evidence", "trend_analysis", "insights"}
	if _, ok := obj["answer"]; !ok {
		keys.answer, keys.evidence, keys.trend, keys.insights = "summary", "key_insights", "productivity_analysis", "improvement_suggestions"
	}

	answer := answerMissing
	if v, ok := obj[keys.answer]; ok && v != nil {
		if s := strings.TrimSpace(stringify(v)); s != "" {
			answer = s
		}
	}

	sources := []string{}
	if list, ok := obj["sources"].([]any); ok {
		sources = toStrings(list)
	}

	return FinalAnswer{
		Answer:        answer,
		Evidence:      toList(obj[keys.evidence]),
		TrendAnalysis: toList(obj[keys.trend]),
		Insights:      toList(obj[keys.insights]),
		Sources:       sources,
		Confidence:    parseConfidence(obj["confidence"]),
	}
}

// toList accepts a list or a scalar. nil becomes an empty list.
func toList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		return toStrings(val)
	default:
		return []string{stringify(val)}
	}
}

func toStrings(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		out = append(out, stringify(item))
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// parseConfidence accepts high/medium/low and 高/中/低 in any case. Anything else is medium.
func parseConfidence(v any) Confidence {
	s, _ := v.(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "高":
		return ConfidenceHigh
	case "low", "低":
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// decodeObject tries, in order: the body of a ```json fence, the body of a
// bare ``` fence, the trimmed text, and the outermost {...} span.
func decodeObject(raw string) (map[string]any, bool) {
	for _, candidate := range jsonCandidates(raw) {
		if obj, ok := decodeJSON(candidate); ok {
			return obj, true
		}
	}
	return nil, false
}

func jsonCandidates(raw string) []string {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil
	}

	var out []string
	if i := strings.Index(content, "```json"); i >= 0 {
		body := content[i+len("```json"):]
		if j := strings.Index(body, "```"); j >= 0 {
			out = append(out, strings.TrimSpace(body[:j]))
		}
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") && len(content) >= 6 {
		out = append(out, strings.TrimSpace(content[3:len(content)-3]))
	}
	out = append(out, content)

	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		out = append(out, content[start:end+1])
	}
	return out
}

func decodeJSON(s string) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
