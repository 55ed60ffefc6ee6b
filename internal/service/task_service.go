package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskmaster/internal/model"
	"taskmaster/internal/recurrence"
	"taskmaster/internal/repository"
)

// TaskStore is the persistence surface the task service needs.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
}

// OccurrenceMaterializer spawns the next occurrence of a completed
// recurring task.
type OccurrenceMaterializer interface {
	MaterializeNext(ctx context.Context, task *model.Task) (*model.Task, error)
}

// TaskInput represents data required to create a task.
type TaskInput struct {
	OwnerID      string
	ProjectID    *string
	Title        string
	Description  string
	Priority     model.Priority
	Status       model.Status
	DueDate      *time.Time
	ReminderDate *time.Time
	Tags         []string
	Subtasks     []model.Subtask
	Recurring    *model.Recurrence
}

// TaskUpdate carries a partial update; nil fields stay untouched.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Priority     *model.Priority
	Status       *model.Status
	DueDate      *time.Time
	ReminderDate *time.Time
	Tags         []string
	Subtasks     []model.Subtask
	Recurring    *model.Recurrence
}

// UpdateResult bundles an updated task with the occurrence its
// completion spawned, if any.
type UpdateResult struct {
	Task           *model.Task
	NextOccurrence *model.Task
}

// BulkResult reports a bulk status update. Missing lists requested IDs
// that matched no task, so the caller can tell an updated task from one
// that never existed.
type BulkResult struct {
	Updated []model.Task
	Spawned []model.Task
	Missing []string
}

// TaskService wraps task-related business logic, including the
// synchronous occurrence trigger that fires when a task transitions
// into completed.
type TaskService struct {
	tasks        TaskStore
	materializer OccurrenceMaterializer
	log          *zap.Logger
	now          func() time.Time
}

func NewTaskService(tasks TaskStore, materializer OccurrenceMaterializer, log *zap.Logger) *TaskService {
	return &TaskService{
		tasks:        tasks,
		materializer: materializer,
		log:          log,
		now:          time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ID:           uuid.NewString(),
		OwnerID:      input.OwnerID,
		ProjectID:    input.ProjectID,
		Title:        input.Title,
		Description:  input.Description,
		Priority:     priority,
		DueDate:      input.DueDate,
		ReminderDate: input.ReminderDate,
		Tags:         input.Tags,
		Subtasks:     input.Subtasks,
	}
	task.SetStatus(status, s.now())

	if input.Recurring != nil {
		rec, err := normalizeRecurrence(*input.Recurring)
		if err != nil {
			return nil, err
		}
		task.Recurring = rec
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.tasks.List(ctx, filter)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// UpdateTask applies a partial update. When the update moves the task
// into completed, the recurrence pipeline runs and the spawned
// occurrence, if any, rides along in the result.
func (s *TaskService) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*UpdateResult, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := task.Status == model.StatusCompleted

	if update.Title != nil {
		if *update.Title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.ReminderDate != nil {
		task.ReminderDate = update.ReminderDate
	}
	if update.Tags != nil {
		task.Tags = update.Tags
	}
	if update.Subtasks != nil {
		task.Subtasks = update.Subtasks
	}
	if update.Recurring != nil {
		rec, err := normalizeRecurrence(*update.Recurring)
		if err != nil {
			return nil, err
		}
		// Bookkeeping survives a reconfiguration.
		rec.NextOccurrence = task.Recurring.NextOccurrence
		task.Recurring = rec
	}
	if update.Status != nil {
		if !task.Status.CanTransition(*update.Status) {
			return nil, fmt.Errorf("%w: cannot move task from %q to %q", ErrValidation, task.Status, *update.Status)
		}
		task.SetStatus(*update.Status, s.now())
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	result := &UpdateResult{Task: task}
	if !wasCompleted && task.Status == model.StatusCompleted {
		next, err := s.generateOnCompletion(ctx, task)
		if err != nil {
			return nil, err
		}
		result.NextOccurrence = next
	}
	return result, nil
}

// ToggleComplete flips a task between completed and pending, running
// the recurrence pipeline when the flip lands on completed. The flip
// obeys the same transition table as every other status change.
func (s *TaskService) ToggleComplete(ctx context.Context, id string) (*UpdateResult, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status == model.StatusCompleted {
		if !task.Status.CanTransition(model.StatusPending) {
			return nil, fmt.Errorf("%w: cannot move task from %q to %q", ErrValidation, task.Status, model.StatusPending)
		}
		task.SetStatus(model.StatusPending, s.now())
		if err := s.tasks.Update(ctx, task); err != nil {
			return nil, err
		}
		return &UpdateResult{Task: task}, nil
	}

	if !task.Status.CanTransition(model.StatusCompleted) {
		return nil, fmt.Errorf("%w: cannot move task from %q to %q", ErrValidation, task.Status, model.StatusCompleted)
	}
	task.SetStatus(model.StatusCompleted, s.now())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	next, err := s.generateOnCompletion(ctx, task)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Task: task, NextOccurrence: next}, nil
}

// BulkUpdateStatus moves every listed task to status. Tasks are
// processed independently: one bad transition or failed write is
// logged and skipped, the rest of the batch still goes through.
func (s *TaskService) BulkUpdateStatus(ctx context.Context, ids []string, status model.Status) (*BulkResult, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	tasks, err := s.tasks.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(tasks))
	for i := range tasks {
		found[tasks[i].ID] = true
	}

	result := &BulkResult{}
	for _, id := range ids {
		if !found[id] {
			result.Missing = append(result.Missing, id)
		}
	}
	for i := range tasks {
		task := &tasks[i]
		if !task.Status.CanTransition(status) {
			s.log.Warn("bulk update: transition rejected",
				zap.String("task_id", task.ID),
				zap.String("from", string(task.Status)),
				zap.String("to", string(status)))
			continue
		}
		wasCompleted := task.Status == model.StatusCompleted
		task.SetStatus(status, s.now())
		if err := s.tasks.Update(ctx, task); err != nil {
			s.log.Error("bulk update: save task",
				zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		result.Updated = append(result.Updated, *task)

		if wasCompleted || task.Status != model.StatusCompleted {
			continue
		}
		next, err := s.generateOnCompletion(ctx, task)
		if err != nil {
			s.log.Error("bulk update: materialize occurrence",
				zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		if next != nil {
			result.Spawned = append(result.Spawned, *next)
		}
	}
	return result, nil
}

// GenerateNext is the manual trigger: it runs the same policy gate and
// end-date re-check as the automatic ones, so a user request never
// produces an occurrence past the recurrence end date. The returned
// task carries the fresh bookkeeping stamp; a nil NextOccurrence means
// the task did not qualify.
func (s *TaskService) GenerateNext(ctx context.Context, id string) (*UpdateResult, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &UpdateResult{Task: task}
	if !recurrence.ShouldGenerateNext(task) {
		return result, nil
	}
	next, err := s.materializer.MaterializeNext(ctx, task)
	if err != nil {
		return nil, err
	}
	result.NextOccurrence = next
	return result, nil
}

func (s *TaskService) generateOnCompletion(ctx context.Context, task *model.Task) (*model.Task, error) {
	if !recurrence.ShouldGenerateNext(task) {
		return nil, nil
	}
	next, err := s.materializer.MaterializeNext(ctx, task)
	if err != nil {
		return nil, err
	}
	if next != nil {
		s.log.Info("materialized next occurrence",
			zap.String("task_id", task.ID),
			zap.String("next_id", next.ID),
			zap.Timep("next_due", next.DueDate))
	}
	return next, nil
}

// normalizeRecurrence applies defaults and rejects a rule that is
// enabled but not understood.
func normalizeRecurrence(rec model.Recurrence) (model.Recurrence, error) {
	if rec.Interval < 1 {
		rec.Interval = 1
	}
	if !rec.Enabled {
		return rec, nil
	}
	switch recurrence.Frequency(rec.Frequency) {
	case recurrence.Daily, recurrence.Weekly, recurrence.Monthly, recurrence.Yearly:
		return rec, nil
	default:
		return model.Recurrence{}, fmt.Errorf("%w: %q", recurrence.ErrInvalidFrequency, rec.Frequency)
	}
}
