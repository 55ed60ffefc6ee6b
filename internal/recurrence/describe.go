package recurrence

import (
	"fmt"

	"taskmaster/internal/model"
)

var frequencyWords = map[Frequency]struct {
	adverb string
	unit   string
}{
	Daily:   {"Daily", "day"},
	Weekly:  {"Weekly", "week"},
	Monthly: {"Monthly", "month"},
	Yearly:  {"Yearly", "year"},
}

// Describe renders a recurrence record as a short human-readable
// phrase, e.g. "Daily" or "Every 2 weeks until Dec 31, 2026". Purely
// presentational; it never feeds back into scheduling decisions.
func Describe(r model.Recurrence) string {
	if !r.Enabled {
		return "Not recurring"
	}
	words, ok := frequencyWords[Frequency(r.Frequency)]
	if !ok {
		return "Not recurring"
	}
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	text := words.adverb
	if interval > 1 {
		text = fmt.Sprintf("Every %d %ss", interval, words.unit)
	}
	if r.EndDate != nil {
		text += " until " + r.EndDate.Format("Jan 2, 2006")
	}
	return text
}
