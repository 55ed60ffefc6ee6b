package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskmaster/internal/model"
)

// TaskFilter narrows task listings.
type TaskFilter struct {
	OwnerID   string
	Status    model.Status
	ProjectID string
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// CreateTask satisfies the materializer's store interface.
func (r *TaskRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return r.Create(ctx, task)
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx)
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	var tasks []model.Task
	if err := q.Order("due_date NULLS LAST, created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Task, error) {
	var tasks []model.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListCompletedRecurring returns every task the periodic sweep has to
// look at: recurrence enabled and status completed.
func (r *TaskRepository) ListCompletedRecurring(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("recur_enabled = ? AND status = ?", true, model.StatusCompleted).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDueReminders returns open tasks whose reminder date falls inside
// [from, to).
func (r *TaskRepository) ListDueReminders(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("reminder_date >= ? AND reminder_date < ?", from, to).
		Where("status NOT IN ?", []model.Status{model.StatusCompleted, model.StatusArchived}).
		Order("reminder_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// StampNextOccurrence records the projected date of the occurrence
// that was just materialized. The write is a single conditional UPDATE
// guarded on the task still being completed, so a task reopened in the
// meantime is never stamped; that case comes back as an error for the
// caller to log.
func (r *TaskRepository) StampNextOccurrence(ctx context.Context, taskID string, next time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", taskID, model.StatusCompleted).
		Update("recur_next_occurrence", next)
	if res.Error != nil {
		return fmt.Errorf("stamp next occurrence: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stamp next occurrence: task %s is no longer completed", taskID)
	}
	return nil
}

// Delete removes a task, recurring or not.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// CountsByStatus groups tasks by status for the analytics summary.
func (r *TaskRepository) CountsByStatus(ctx context.Context) (map[model.Status]int64, error) {
	rows, err := r.countsBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Status]int64, len(rows))
	for key, count := range rows {
		counts[model.Status(key)] = count
	}
	return counts, nil
}

// CountsByPriority groups tasks by priority for the analytics summary.
func (r *TaskRepository) CountsByPriority(ctx context.Context) (map[model.Priority]int64, error) {
	rows, err := r.countsBy(ctx, "priority")
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Priority]int64, len(rows))
	for key, count := range rows {
		counts[model.Priority(key)] = count
	}
	return counts, nil
}

func (r *TaskRepository) countsBy(ctx context.Context, column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	counts := make(map[string]int64, len(rows))
	for _, item := range rows {
		counts[item.Key] = item.Count
	}
	return counts, nil
}

// CountOverdue counts open tasks whose due date has passed.
func (r *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("due_date < ?", now).
		Where("status NOT IN ?", []model.Status{model.StatusCompleted, model.StatusArchived}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count overdue: %w", err)
	}
	return count, nil
}

// CountDueWithin counts open tasks due inside [from, to).
func (r *TaskRepository) CountDueWithin(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("due_date >= ? AND due_date < ?", from, to).
		Where("status NOT IN ?", []model.Status{model.StatusCompleted, model.StatusArchived}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count due soon: %w", err)
	}
	return count, nil
}
