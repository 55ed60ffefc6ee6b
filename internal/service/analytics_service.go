package service

import (
	"context"
	"time"

	"taskmaster/internal/model"
)

// AnalyticsStore aggregates task counts.
type AnalyticsStore interface {
	CountsByStatus(ctx context.Context) (map[model.Status]int64, error)
	CountsByPriority(ctx context.Context) (map[model.Priority]int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
	CountDueWithin(ctx context.Context, from, to time.Time) (int64, error)
}

// Summary is a snapshot of the task collection.
type Summary struct {
	Total          int64                    `json:"total"`
	ByStatus       map[model.Status]int64   `json:"by_status"`
	ByPriority     map[model.Priority]int64 `json:"by_priority"`
	Overdue        int64                    `json:"overdue"`
	DueSoon        int64                    `json:"due_soon"`
	CompletionRate float64                  `json:"completion_rate"`
}

// AnalyticsService computes the dashboard summary.
type AnalyticsService struct {
	store AnalyticsStore
	now   func() time.Time
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store, now: time.Now}
}

// Summarize counts tasks by status and priority, overdue tasks and
// tasks due within the next seven days.
func (s *AnalyticsService) Summarize(ctx context.Context) (*Summary, error) {
	byStatus, err := s.store.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.store.CountsByPriority(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	overdue, err := s.store.CountOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	dueSoon, err := s.store.CountDueWithin(ctx, now, now.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}
	summary := &Summary{
		Total:      total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
		Overdue:    overdue,
		DueSoon:    dueSoon,
	}
	if total > 0 {
		summary.CompletionRate = float64(byStatus[model.StatusCompleted]) / float64(total)
	}
	return summary, nil
}
