package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskmaster/internal/model"
	"taskmaster/internal/recurrence"
	"taskmaster/internal/repository"
	"taskmaster/internal/service"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestEnv(t *testing.T) (*service.TaskService, *repository.TaskRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	repo := repository.NewTaskRepository(db)
	materializer := recurrence.NewMaterializer(repo, zap.NewNop())
	return service.NewTaskService(repo, materializer, zap.NewNop()), repo
}

func TestCompleteNonRecurringTask_NoOccurrence(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:     "one-off errand",
		Recurring: &model.Recurrence{Enabled: false},
	})
	require.NoError(t, err)

	completed := model.StatusCompleted
	result, err := svc.UpdateTask(ctx, task.ID, service.TaskUpdate{Status: &completed})
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, result.Task.Status)
	assert.Nil(t, result.NextOccurrence)
}

func TestCompleteWeeklyTask_SpawnsNextOccurrence(t *testing.T) {
	svc, repo := newTestEnv(t)
	ctx := context.Background()
	due := date(2026, time.January, 1)

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:    "weekly review",
		Priority: model.PriorityHigh,
		DueDate:  &due,
		Tags:     []string{"work"},
		Subtasks: []model.Subtask{{Title: "prep notes", Completed: false}},
		Recurring: &model.Recurrence{
			Enabled:   true,
			Frequency: "weekly",
			Interval:  1,
		},
	})
	require.NoError(t, err)

	result, err := svc.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, result.NextOccurrence)

	next := result.NextOccurrence
	assert.Equal(t, model.StatusPending, next.Status)
	assert.False(t, next.Completed)
	require.NotNil(t, next.DueDate)
	assert.True(t, next.DueDate.Equal(date(2026, time.January, 8)))

	// The spawned task is persisted and the original carries the
	// projected date as bookkeeping.
	stored, err := repo.FindByID(ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, "weekly review", stored.Title)

	original, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, original.Recurring.NextOccurrence)
	assert.True(t, original.Recurring.NextOccurrence.Equal(date(2026, time.January, 8)))
}

func TestCompleteMonthlyTask_EndDateBlocksOccurrence(t *testing.T) {
	svc, repo := newTestEnv(t)
	ctx := context.Background()
	due := date(2026, time.January, 1)
	end := date(2026, time.January, 15)

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:   "monthly invoice",
		DueDate: &due,
		Recurring: &model.Recurrence{
			Enabled:   true,
			Frequency: "monthly",
			Interval:  1,
			EndDate:   &end,
		},
	})
	require.NoError(t, err)

	// Feb 1 exceeds the Jan 15 end date, so nothing is spawned even
	// though the policy pre-check passes.
	result, err := svc.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, result.NextOccurrence)

	original, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, original.Status)
	assert.Nil(t, original.Recurring.NextOccurrence)
}

func TestGenerateNext_DeclinesPendingOccurrence(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()
	due := date(2026, time.January, 1)

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:     "daily standup notes",
		DueDate:   &due,
		Recurring: &model.Recurrence{Enabled: true, Frequency: "daily"},
	})
	require.NoError(t, err)

	result, err := svc.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, result.NextOccurrence)

	// The freshly spawned occurrence is pending, so asking for its
	// next occurrence is a no-op, not an error.
	manual, err := svc.GenerateNext(ctx, result.NextOccurrence.ID)
	require.NoError(t, err)
	assert.Nil(t, manual.NextOccurrence)
}

func TestGenerateNext_ManualTriggerRespectsEndDate(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()
	due := date(2026, time.January, 1)
	end := date(2026, time.June, 1)

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:   "quarterly checkup",
		DueDate: &due,
		Recurring: &model.Recurrence{
			Enabled:   true,
			Frequency: "yearly",
			EndDate:   &end,
		},
	})
	require.NoError(t, err)

	result, err := svc.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	// Policy passes (due < end) but the projected date, a year out,
	// exceeds the end date.
	assert.Nil(t, result.NextOccurrence)

	manual, err := svc.GenerateNext(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, manual.NextOccurrence)
	assert.Equal(t, task.ID, manual.Task.ID)
}

func TestGenerateNext_ReturnsStampedOriginal(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()
	due := date(2026, time.March, 1)

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:     "water plants",
		Status:    model.StatusCompleted,
		DueDate:   &due,
		Recurring: &model.Recurrence{Enabled: true, Frequency: "weekly"},
	})
	require.NoError(t, err)

	result, err := svc.GenerateNext(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, result.NextOccurrence)

	// The returned original already carries the bookkeeping stamp for
	// the occurrence it rode along with.
	require.NotNil(t, result.Task.Recurring.NextOccurrence)
	assert.True(t, result.Task.Recurring.NextOccurrence.Equal(date(2026, time.March, 8)))
	require.NotNil(t, result.NextOccurrence.DueDate)
	assert.True(t, result.NextOccurrence.DueDate.Equal(date(2026, time.March, 8)))
}

func TestToggleComplete_RejectsArchivedTask(t *testing.T) {
	svc, repo := newTestEnv(t)
	ctx := context.Background()
	due := date(2026, time.February, 1)

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:     "shelved chore",
		Status:    model.StatusArchived,
		DueDate:   &due,
		Recurring: &model.Recurrence{Enabled: true, Frequency: "weekly"},
	})
	require.NoError(t, err)

	_, err = svc.ToggleComplete(ctx, task.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)

	// The task stays archived and nothing was spawned.
	stored, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, stored.Status)

	all, err := repo.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateTask_RejectsInvalidFrequency(t *testing.T) {
	svc, _ := newTestEnv(t)

	_, err := svc.CreateTask(context.Background(), service.TaskInput{
		Title:     "broken rule",
		Recurring: &model.Recurrence{Enabled: true, Frequency: "fortnightly"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, recurrence.ErrInvalidFrequency)
}

func TestUpdateTask_RejectsIllegalTransition(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:  "stale item",
		Status: model.StatusArchived,
	})
	require.NoError(t, err)

	completed := model.StatusCompleted
	_, err = svc.UpdateTask(ctx, task.ID, service.TaskUpdate{Status: &completed})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestBulkUpdateStatus_SpawnsOccurrencesPerTask(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()
	due := date(2026, time.May, 1)

	plain, err := svc.CreateTask(ctx, service.TaskInput{Title: "plain"})
	require.NoError(t, err)
	recurring, err := svc.CreateTask(ctx, service.TaskInput{
		Title:     "recurring",
		DueDate:   &due,
		Recurring: &model.Recurrence{Enabled: true, Frequency: "daily"},
	})
	require.NoError(t, err)

	result, err := svc.BulkUpdateStatus(ctx, []string{plain.ID, recurring.ID}, model.StatusCompleted)
	require.NoError(t, err)

	assert.Len(t, result.Updated, 2)
	require.Len(t, result.Spawned, 1)
	assert.Equal(t, "recurring", result.Spawned[0].Title)
	require.NotNil(t, result.Spawned[0].DueDate)
	assert.True(t, result.Spawned[0].DueDate.Equal(date(2026, time.May, 2)))
	assert.Empty(t, result.Missing)
}

func TestBulkUpdateStatus_ReportsMissingIDs(t *testing.T) {
	svc, _ := newTestEnv(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, service.TaskInput{Title: "real"})
	require.NoError(t, err)

	result, err := svc.BulkUpdateStatus(ctx, []string{task.ID, "no-such-id"}, model.StatusInProgress)
	require.NoError(t, err)

	assert.Len(t, result.Updated, 1)
	assert.Equal(t, []string{"no-such-id"}, result.Missing)
}
