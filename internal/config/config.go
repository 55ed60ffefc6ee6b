package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the server.
type Config struct {
	DatabaseURL     string
	HTTPAddr        string
	SweepDailyAt    string
	ReminderDailyAt string
	TelegramToken   string
	ReminderChatID  int64
	Development     bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:        strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		SweepDailyAt:    strings.TrimSpace(os.Getenv("SWEEP_DAILY_AT")),
		ReminderDailyAt: strings.TrimSpace(os.Getenv("REMINDER_DAILY_AT")),
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		Development:     parseBool(os.Getenv("LOG_DEVELOPMENT")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskmaster.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.SweepDailyAt == "" {
		cfg.SweepDailyAt = "03:00"
	}
	if cfg.ReminderDailyAt == "" {
		cfg.ReminderDailyAt = "08:00"
	}

	if raw := strings.TrimSpace(os.Getenv("REMINDER_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("REMINDER_CHAT_ID must be an integer: %w", err)
		}
		cfg.ReminderChatID = chatID
	}
	if cfg.TelegramToken != "" && cfg.ReminderChatID == 0 {
		return cfg, fmt.Errorf("REMINDER_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && value
}
