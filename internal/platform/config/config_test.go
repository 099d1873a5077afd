package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/focuspulse")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ScopeToday, cfg.TaskDisplayScope)
	assert.Equal(t, 30, cfg.InactionTriggerSeconds)
	assert.Equal(t, int64(30000), cfg.HighRiskExitInactionMs)
	assert.Equal(t, 60, cfg.EarlyExitThresholdSeconds)
	assert.Equal(t, 100, cfg.HighRiskExitLimit)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_MissingRedisURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/focuspulse")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoad_InvalidScope(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TASK_DISPLAY_SCOPE", "yesterday")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TASK_DISPLAY_SCOPE")
}

func TestLoad_InvalidThresholds(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero inaction trigger", "INACTION_TRIGGER_SECONDS", "0"},
		{"negative high risk inaction", "HIGH_RISK_EXIT_INACTION_MS", "-1"},
		{"zero early exit threshold", "EARLY_EXIT_THRESHOLD_SECONDS", "0"},
		{"zero high risk limit", "HIGH_RISK_EXIT_LIMIT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := &Config{
		InactionTriggerSeconds:    45,
		EarlyExitThresholdSeconds: 90,
	}

	assert.Equal(t, 45*time.Second, cfg.InactionTrigger())
	assert.Equal(t, 90*time.Second, cfg.EarlyExitThreshold())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("INACTION_TRIGGER_SECONDS", "10")
	t.Setenv("TASK_DISPLAY_SCOPE", "all")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.InactionTriggerSeconds)
	assert.Equal(t, ScopeAll, cfg.TaskDisplayScope)
}
