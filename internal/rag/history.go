package rag

import (
	"fmt"
	"sort"
	"strings"

	"journal-ai/internal/storage"
)

const moodTrendThreshold = 0.5

type activityCategory struct {
	label string
	get   func(storage.Record) []string
}

var activityCategories = []activityCategory{
	{"工作", func(r storage.Record) []string { return r.WorkActivities }},
	{"个人", func(r storage.Record) []string { return r.PersonalActivities }},
	{"学习", func(r storage.Record) []string { return r.LearningActivities }},
	{"健康", func(r storage.Record) []string { return r.HealthActivities }},
	{"目标", func(r storage.Record) []string { return r.GoalsAchieved }},
	{"挑战", func(r storage.Record) []string { return r.ChallengesFaced }},
}

// HistoryDigest renders records grouped by day, oldest first, followed by a
// summary line with the mood trend and per-category activity counts.
func HistoryDigest(records []storage.Record) string {
	if len(records) == 0 {
		return "（无记录）"
	}

	sorted := append([]storage.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RecordDate != sorted[j].RecordDate {
			return sorted[i].RecordDate < sorted[j].RecordDate
		}
		return sorted[i].ID < sorted[j].ID
	})

	var (
		b      strings.Builder
		moods  []int
		counts = make([]int, len(activityCategories))
	)

	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].RecordDate == sorted[start].RecordDate {
			end++
		}
		day := sorted[start:end]

		fmt.Fprintf(&b, "## %s\n", day[0].RecordDate)
		var dayMoods []int
		for _, r := range day {
			fmt.Fprintf(&b, "- [src:%d] %s\n", r.ID, truncateRunes(r.Content, digestRunes))
			if r.MoodScore != nil {
				dayMoods = append(dayMoods, *r.MoodScore)
			}
		}
		if line := moodLine(dayMoods); line != "" {
			b.WriteString(line + "\n")
		}
		for i, cat := range activityCategories {
			var items []string
			for _, r := range day {
				items = append(items, cat.get(r)...)
				counts[i] += len(cat.get(r))
			}
			if merged := dedupe(items); len(merged) > 0 {
				fmt.Fprintf(&b, "%s: %s\n", cat.label, strings.Join(merged, "、"))
			}
		}
		b.WriteString("\n")
		moods = append(moods, dayMoods...)
		start = end
	}

	b.WriteString(summaryLine(moods, counts))
	return b.String()
}

func moodLine(moods []int) string {
	switch len(moods) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("心情: %d", moods[0])
	}
	lo, hi := moods[0], moods[0]
	for _, m := range moods {
		lo = min(lo, m)
		hi = max(hi, m)
	}
	return fmt.Sprintf("心情: 平均 %.1f（%d-%d）", average(moods), lo, hi)
}

func summaryLine(moods []int, counts []int) string {
	parts := make([]string, 0, len(counts)+1)
	if trend := MoodTrend(moods); trend != "" {
		parts = append(parts, "情绪趋势: "+trend)
	}
	for i, cat := range activityCategories {
		parts = append(parts, fmt.Sprintf("%s %d 项", cat.label, counts[i]))
	}
	return "汇总: " + strings.Join(parts, "，")
}

// MoodTrend compares the average of the first and second half of the scores,
// in chronological order. It returns 上升, 平稳 or 下降, or "" with fewer than two scores.
func MoodTrend(moods []int) string {
	if len(moods) < 2 {
		return ""
	}
	half := len(moods) / 2
	diff := average(moods[half:]) - average(moods[:half])
	switch {
	case diff > moodTrendThreshold:
		return "上升"
	case diff < -moodTrendThreshold:
		return "下降"
	default:
		return "平稳"
	}
}

func average(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
