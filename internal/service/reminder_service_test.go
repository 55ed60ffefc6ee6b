package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/model"
	"taskmaster/internal/service"
)

type stubReminderStore struct {
	tasks   []model.Task
	gotFrom time.Time
	gotTo   time.Time
}

func (s *stubReminderStore) ListDueReminders(_ context.Context, from, to time.Time) ([]model.Task, error) {
	s.gotFrom, s.gotTo = from, to
	return s.tasks, nil
}

func TestDailyDigest(t *testing.T) {
	now := time.Date(2026, time.April, 10, 9, 30, 0, 0, time.UTC)
	due := date(2026, time.April, 12)
	store := &stubReminderStore{tasks: []model.Task{
		{
			Title:     "renew insurance",
			Priority:  model.PriorityHigh,
			DueDate:   &due,
			Recurring: model.Recurrence{Enabled: true, Frequency: "yearly", Interval: 1},
		},
		{
			Title:    "call <dentist>",
			Priority: model.PriorityLow,
		},
	}}
	svc := service.NewReminderService(store)

	text, err := svc.DailyDigest(context.Background(), now)
	require.NoError(t, err)

	assert.Contains(t, text, "renew insurance")
	assert.Contains(t, text, "Yearly")
	assert.Contains(t, text, "due 2026-04-12")
	// HTML special characters are escaped for the Telegram HTML mode.
	assert.Contains(t, text, "call &lt;dentist&gt;")
	assert.NotContains(t, text, "call <dentist>")

	// The queried window is the calendar day containing now.
	assert.Equal(t, date(2026, time.April, 10), store.gotFrom)
	assert.Equal(t, date(2026, time.April, 11), store.gotTo)
}

func TestDailyDigest_EmptyWhenNothingDue(t *testing.T) {
	svc := service.NewReminderService(&stubReminderStore{})

	text, err := svc.DailyDigest(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, text)
}
