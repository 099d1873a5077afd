// Package config loads and validates process configuration from the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Display scope values. Only "today" is implemented; "week" and "all" are
// reserved.
const (
	ScopeToday = "today"
	ScopeWeek  = "week"
	ScopeAll   = "all"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	TaskDisplayScope string `env:"TASK_DISPLAY_SCOPE" default:"today"`

	InactionTriggerSeconds    int   `env:"INACTION_TRIGGER_SECONDS" default:"30"`
	HighRiskExitInactionMs    int64 `env:"HIGH_RISK_EXIT_INACTION_MS" default:"30000"`
	EarlyExitThresholdSeconds int   `env:"EARLY_EXIT_THRESHOLD_SECONDS" default:"60"`
	HighRiskExitLimit         int   `env:"HIGH_RISK_EXIT_LIMIT" default:"100"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"REDIS_URL":    cfg.RedisURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	switch cfg.TaskDisplayScope {
	case ScopeToday, ScopeWeek, ScopeAll:
	default:
		return fmt.Errorf("TASK_DISPLAY_SCOPE must be one of today|week|all, got %q", cfg.TaskDisplayScope)
	}

	if cfg.InactionTriggerSeconds <= 0 {
		return fmt.Errorf("INACTION_TRIGGER_SECONDS must be positive, got %d", cfg.InactionTriggerSeconds)
	}
	if cfg.HighRiskExitInactionMs <= 0 {
		return fmt.Errorf("HIGH_RISK_EXIT_INACTION_MS must be positive, got %d", cfg.HighRiskExitInactionMs)
	}
	if cfg.EarlyExitThresholdSeconds <= 0 {
		return fmt.Errorf("EARLY_EXIT_THRESHOLD_SECONDS must be positive, got %d", cfg.EarlyExitThresholdSeconds)
	}
	if cfg.HighRiskExitLimit <= 0 {
		return fmt.Errorf("HIGH_RISK_EXIT_LIMIT must be positive, got %d", cfg.HighRiskExitLimit)
	}

	return nil
}

// InactionTrigger returns the inaction threshold as a duration.
func (c *Config) InactionTrigger() time.Duration {
	return time.Duration(c.InactionTriggerSeconds) * time.Second
}

// EarlyExitThreshold returns the early-exit threshold as a duration.
func (c *Config) EarlyExitThreshold() time.Duration {
	return time.Duration(c.EarlyExitThresholdSeconds) * time.Second
}
