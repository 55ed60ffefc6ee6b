package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"taskmaster/internal/config"
	"taskmaster/internal/notify"
	"taskmaster/internal/recurrence"
	"taskmaster/internal/repository"
	"taskmaster/internal/server"
	"taskmaster/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	materializer := recurrence.NewMaterializer(taskRepo, logger)
	taskSvc := service.NewTaskService(taskRepo, materializer, logger)
	projectSvc := service.NewProjectService(projectRepo)
	analyticsSvc := service.NewAnalyticsService(taskRepo)
	sweepSvc := service.NewSweepService(taskRepo, materializer, logger)
	reminderSvc := service.NewReminderService(taskRepo)

	scheduler := service.NewSchedulerService(time.Local, logger)

	runSweep := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := sweepSvc.Run(jobCtx); err != nil {
			logger.Error("sweep", zap.Error(err))
		}
	}
	// Daily plus hourly, for redundancy: the hourly tick catches
	// completions whose synchronous trigger never ran.
	if _, err := scheduler.ScheduleDaily(cfg.SweepDailyAt, runSweep); err != nil {
		logger.Fatal("schedule daily sweep", zap.Error(err))
	}
	if _, err := scheduler.ScheduleHourly(runSweep); err != nil {
		logger.Fatal("schedule hourly sweep", zap.Error(err))
	}

	if cfg.TelegramToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.ReminderChatID)
		if err != nil {
			logger.Fatal("telegram notifier", zap.Error(err))
		}
		sendDigest := func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			text, err := reminderSvc.DailyDigest(jobCtx, time.Now())
			if err != nil {
				logger.Error("build reminder digest", zap.Error(err))
				return
			}
			if err := notifier.Send(text); err != nil {
				logger.Error("send reminder digest", zap.Error(err))
			}
		}
		if _, err := scheduler.ScheduleDaily(cfg.ReminderDailyAt, sendDigest); err != nil {
			logger.Fatal("schedule reminder digest", zap.Error(err))
		}
	}

	scheduler.Start()
	defer scheduler.Stop()

	srv := server.New(cfg.HTTPAddr, taskSvc, projectSvc, analyticsSvc, logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
