package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "OUTPUT_DIR", "WORKER_POLL_INTERVAL", "VALIDATION_RULES", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, 100*time.Millisecond, cfg.WorkerPollInterval)
	assert.Equal(t, "", cfg.ValidationRules)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OUTPUT_DIR", "/tmp/assets")
	t.Setenv("WORKER_POLL_INTERVAL", "2s")
	t.Setenv("VALIDATION_RULES", "rules.yaml")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "/tmp/assets", cfg.OutputDir)
	assert.Equal(t, 2*time.Second, cfg.WorkerPollInterval)
	assert.Equal(t, "rules.yaml", cfg.ValidationRules)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadPollInterval(t *testing.T) {
	t.Setenv("WORKER_POLL_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("WORKER_POLL_INTERVAL", "-1s")
	_, err = Load()
	assert.Error(t, err)
}
