package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/recurrence"
)

// ReminderStore lists tasks with reminders coming due.
type ReminderStore interface {
	ListDueReminders(ctx context.Context, from, to time.Time) ([]model.Task, error)
}

// ReminderService builds human-readable digests of tasks whose
// reminder date falls on a given day.
type ReminderService struct {
	store ReminderStore
}

func NewReminderService(store ReminderStore) *ReminderService {
	return &ReminderService{store: store}
}

// DailyDigest renders the reminder digest for the day containing now.
// An empty string means there is nothing to remind about.
func (s *ReminderService) DailyDigest(ctx context.Context, now time.Time) (string, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	tasks, err := s.store.ListDueReminders(ctx, from, to)
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return "", nil
	}

	var builder strings.Builder
	builder.WriteString("🔔 <b>Reminders</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Jan 2, 2006")))
	for _, task := range tasks {
		builder.WriteString(formatReminder(task, now))
	}
	return strings.TrimSpace(builder.String()), nil
}

func formatReminder(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	switch task.Priority {
	case model.PriorityHigh:
		icon = "🔴"
	case model.PriorityMedium:
		icon = "🟡"
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(task.Title))))

	if task.DueDate != nil {
		d := task.DueDate.In(now.Location())
		if now.After(d) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s — <b>overdue</b>", d.Format("2006-01-02")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s", d.Format("2006-01-02")))
		}
	}

	if task.Recurring.Enabled {
		sb.WriteString(fmt.Sprintf("\n   ♻️ %s", recurrence.Describe(task.Recurring)))
	}

	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(task.Description))))
	}

	sb.WriteByte('\n')
	return sb.String()
}
