package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskmaster/internal/model"
)

// Store is the slice of task persistence the materializer needs.
type Store interface {
	CreateTask(ctx context.Context, task *model.Task) error
	// StampNextOccurrence sets recurring.next_occurrence on a single
	// task as one conditional update, guarded on the task still being
	// completed. It must not read-modify-write the whole record.
	StampNextOccurrence(ctx context.Context, taskID string, next time.Time) error
}

// Materializer builds and persists the next occurrence of a completed
// recurring task.
type Materializer struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewMaterializer(store Store, log *zap.Logger) *Materializer {
	return &Materializer{store: store, log: log, now: time.Now}
}

// MaterializeNext projects the next due date of t, persists a new
// pending task for it and stamps the projected date on the original.
// It returns (nil, nil) when t carries no usable recurrence rule or
// when the projected date falls beyond the recurrence end date; in
// both cases the original task is untouched.
//
// The new task is created before the original is stamped, so a
// creation failure never leaves the original pointing at an occurrence
// that does not exist. A stamp failure after a successful create
// leaves stale bookkeeping only and is logged, not retried.
func (m *Materializer) MaterializeNext(ctx context.Context, t *model.Task) (*model.Task, error) {
	rule, ok := RuleFrom(t)
	if !ok {
		return nil, nil
	}

	base := m.now()
	if t.DueDate != nil {
		base = *t.DueDate
	}
	nextDue, err := ProjectNext(base, rule.Frequency, rule.Interval)
	if err != nil {
		return nil, err
	}

	if rule.EndDate != nil && nextDue.After(*rule.EndDate) {
		return nil, nil
	}

	next := buildOccurrence(t, rule, nextDue)
	if err := m.store.CreateTask(ctx, next); err != nil {
		return nil, fmt.Errorf("create next occurrence: %w", err)
	}

	if err := m.store.StampNextOccurrence(ctx, t.ID, nextDue); err != nil {
		m.log.Warn("stamp next occurrence failed after create",
			zap.String("task_id", t.ID),
			zap.Time("next_due", nextDue),
			zap.Error(err))
	} else {
		stamped := nextDue
		t.Recurring.NextOccurrence = &stamped
	}

	return next, nil
}

// buildOccurrence copies the identity of t into a fresh pending task
// due at nextDue. Subtask checkmarks do not carry forward.
func buildOccurrence(t *model.Task, rule Rule, nextDue time.Time) *model.Task {
	due := nextDue
	next := &model.Task{
		ID:          uuid.NewString(),
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      model.StatusPending,
		Completed:   false,
		DueDate:     &due,
		Tags:        append([]string(nil), t.Tags...),
	}
	if t.ProjectID != nil {
		projectID := *t.ProjectID
		next.ProjectID = &projectID
	}
	if t.ReminderDate != nil {
		// The rule already validated the frequency, so this cannot
		// fail; the reminder shifts by the same step as the due date.
		if reminder, err := ProjectNext(*t.ReminderDate, rule.Frequency, rule.Interval); err == nil {
			next.ReminderDate = &reminder
		}
	}
	if len(t.Subtasks) > 0 {
		next.Subtasks = make([]model.Subtask, len(t.Subtasks))
		for i, sub := range t.Subtasks {
			next.Subtasks[i] = model.Subtask{Title: sub.Title}
		}
	}
	occurrence := nextDue
	next.Recurring = t.Recurring
	next.Recurring.NextOccurrence = &occurrence
	return next
}
