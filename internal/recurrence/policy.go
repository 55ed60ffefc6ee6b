package recurrence

import "taskmaster/internal/model"

// ShouldGenerateNext reports whether completing t should spawn its
// next occurrence. It is side-effect free and safe to call
// speculatively before deciding to materialize.
//
// The end-date comparison here uses the task's current due date as a
// cheap pre-filter; MaterializeNext re-checks the projected date
// against the end date and is the authoritative enforcement point.
func ShouldGenerateNext(t *model.Task) bool {
	if t == nil {
		return false
	}
	rule, ok := RuleFrom(t)
	if !ok {
		return false
	}
	if t.Status != model.StatusCompleted {
		return false
	}
	if rule.EndDate != nil {
		if t.DueDate == nil || !t.DueDate.Before(*rule.EndDate) {
			return false
		}
	}
	return true
}
