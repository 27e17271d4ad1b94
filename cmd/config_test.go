package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every configuration variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range configDefaults {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "http://localhost:5000", cfg.LabAPIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.LabAPITimeout)
	assert.Equal(t, OrderSourceAPI, cfg.OrderSource)
	assert.Equal(t, HistoryStoreMemory, cfg.HistoryStore)
	assert.Equal(t, 12*time.Hour, cfg.HistoryTTL)
	assert.Equal(t, 2*time.Hour, cfg.WorkspaceIdleTTL)
	assert.Equal(t, "@every 1m", cfg.WorkspaceSweepSchedule)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LAB_API_TIMEOUT", "5s")
	t.Setenv("ORDER_SOURCE", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("HISTORY_STORE", "redis")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.LabAPITimeout)
	assert.Equal(t, OrderSourcePostgres, cfg.OrderSource)
	assert.Equal(t, HistoryStoreRedis, cfg.HistoryStore)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "postgres://postgres:@db:5432/labconsole?sslmode=disable", cfg.DBSettings().DSN())
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LAB_API_BASE_URL=http://lab.internal:7000\nLOG_FORMAT=console\n"), 0o600))

	cfg, err := LoadConfig(envFile)

	require.NoError(t, err)
	assert.Equal(t, "http://lab.internal:7000", cfg.LabAPIBaseURL)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfig_RejectsInvalidSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORDER_SOURCE", "mongo")
	t.Setenv("HISTORY_STORE", "memcached")
	t.Setenv("WORKSPACE_IDLE_TTL", "-1m")

	_, err := LoadConfig("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDER_SOURCE")
	assert.Contains(t, err.Error(), "HISTORY_STORE")
	assert.Contains(t, err.Error(), "WORKSPACE_IDLE_TTL")
}
