package recurrence

import (
	"time"

	"taskmaster/internal/model"
)

// Rule is a validated recurrence configuration. A Rule exists only for
// tasks whose recurrence record is enabled and well-formed, so code
// consuming one never re-checks those fields.
type Rule struct {
	Frequency Frequency
	Interval  int
	EndDate   *time.Time
}

// RuleFrom extracts the recurrence rule of a task. ok is false when
// recurrence is disabled or the record is malformed (unknown
// frequency). A missing interval defaults to 1.
func RuleFrom(t *model.Task) (Rule, bool) {
	r := t.Recurring
	if !r.Enabled {
		return Rule{}, false
	}
	freq := Frequency(r.Frequency)
	switch freq {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return Rule{}, false
	}
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	return Rule{Frequency: freq, Interval: interval, EndDate: r.EndDate}, true
}
