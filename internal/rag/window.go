package rag

import (
	"time"

	"journal-ai/internal/storage"
)

// Clock returns the current time. Engines take one so tests can pin "today".
type Clock func() time.Time

// ResolveWindow maps an intent to its initial date window. The second return
// value is the frozen original window, identical at resolution time.
func ResolveWindow(intent Intent, today time.Time) (current, original storage.Window) {
	end := today.Format(storage.DateLayout)

	var w storage.Window
	switch intent {
	case IntentToday:
		w = storage.Window{Start: end, End: end}
	case IntentRecent:
		w = storage.Window{Start: shiftDate(end, -7), End: end}
	case IntentTrend:
		w = storage.Window{Start: shiftDate(end, -30), End: end}
	default:
		w = storage.Window{}
	}
	return w, w
}

// shiftDate moves an ISO date by days. Malformed input is returned unchanged.
func shiftDate(date string, days int) string {
	t, err := time.Parse(storage.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(storage.DateLayout)
}

// daysBetween returns to - from in whole days.
func daysBetween(from, to string) int {
	a, err := time.Parse(storage.DateLayout, from)
	if err != nil {
		return 0
	}
	b, err := time.Parse(storage.DateLayout, to)
	if err != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}
