// Package config loads application configuration from the environment.
// A .env file is honored when present; every key has a working default
// so a bare `go run ./cmd/server` starts.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Rules RulesConfig
}

type AppConfig struct {
	Port   int
	DBPath string
}

// RulesConfig mirrors reconcile.Rules in plain integers. DailyHours is
// configurable because call sites in the legacy system used both an 8h
// and a 9h baseline.
type RulesConfig struct {
	DailyHours       int
	OfficeOpenHour   int
	OfficeCloseHour  int
	LunchStartHour   int
	LunchStartMinute int
	LunchEndHour     int
	LunchEndMinute   int
}

func Load() (*Config, error) {
	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	daily, err := getEnvInt("DAILY_HOURS", 8)
	if err != nil {
		return nil, err
	}
	officeOpen, err := getEnvInt("OFFICE_OPEN_HOUR", 7)
	if err != nil {
		return nil, err
	}
	officeClose, err := getEnvInt("OFFICE_CLOSE_HOUR", 19)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Port:   port,
			DBPath: getEnv("DB_PATH", "timecharge.db"),
		},
		Rules: RulesConfig{
			DailyHours:       daily,
			OfficeOpenHour:   officeOpen,
			OfficeCloseHour:  officeClose,
			LunchStartHour:   11,
			LunchStartMinute: 30,
			LunchEndHour:     12,
			LunchEndMinute:   30,
		},
	}

	if cfg.Rules.DailyHours <= 0 {
		return nil, fmt.Errorf("DAILY_HOURS must be positive, got %d", cfg.Rules.DailyHours)
	}
	if cfg.Rules.OfficeOpenHour >= cfg.Rules.OfficeCloseHour {
		return nil, fmt.Errorf("office window is empty: open %d, close %d",
			cfg.Rules.OfficeOpenHour, cfg.Rules.OfficeCloseHour)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
