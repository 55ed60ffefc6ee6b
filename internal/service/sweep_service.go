package service

import (
	"context"

	"go.uber.org/zap"

	"taskmaster/internal/model"
	"taskmaster/internal/recurrence"
)

// SweepStore lists the tasks the periodic sweep has to look at.
type SweepStore interface {
	ListCompletedRecurring(ctx context.Context) ([]model.Task, error)
}

// SweepSummary reports one sweep run.
type SweepSummary struct {
	Scanned int
	Created int
	Skipped int
	Failed  int
}

// SweepService walks every completed recurring task and materializes
// missing occurrences. It backs up the synchronous trigger: anything
// that slipped through (a crash between update and materialization, a
// direct database edit) is picked up on the next tick.
type SweepService struct {
	store        SweepStore
	materializer OccurrenceMaterializer
	log          *zap.Logger
}

func NewSweepService(store SweepStore, materializer OccurrenceMaterializer, log *zap.Logger) *SweepService {
	return &SweepService{store: store, materializer: materializer, log: log}
}

// Run performs one sweep. Each task's outcome is isolated: a failed
// materialization is logged and counted, never aborts the rest.
func (s *SweepService) Run(ctx context.Context) (SweepSummary, error) {
	tasks, err := s.store.ListCompletedRecurring(ctx)
	if err != nil {
		return SweepSummary{}, err
	}

	summary := SweepSummary{Scanned: len(tasks)}
	for i := range tasks {
		task := &tasks[i]
		if !recurrence.ShouldGenerateNext(task) {
			summary.Skipped++
			continue
		}
		next, err := s.materializer.MaterializeNext(ctx, task)
		if err != nil {
			summary.Failed++
			s.log.Error("sweep: materialize occurrence",
				zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		if next == nil {
			// End date reached between the policy check and the
			// materializer's own re-check.
			summary.Skipped++
			continue
		}
		summary.Created++
		s.log.Info("sweep: materialized next occurrence",
			zap.String("task_id", task.ID),
			zap.String("next_id", next.ID),
			zap.Timep("next_due", next.DueDate))
	}

	s.log.Info("sweep finished",
		zap.Int("scanned", summary.Scanned),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}
