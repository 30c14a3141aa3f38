package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOGS_FOLDER", "")
	for _, k := range []string{"CASES_CSV", "ACTIONS_CSV", "SITES_CSV", "ENABLE_MERMAID_CHARTS", "CASES_PER_TURBINE_TARGET", "SNAPSHOT_CACHE_TTL_SECONDS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := FromEnv("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
	assert.Equal(t, filepath.Join(dir, "cache"), cfg.CacheDir)
	assert.Equal(t, filepath.Join(dir, "cache", "prefs"), cfg.PrefsDir())
	assert.Equal(t, 3.0, cfg.CasesPerTurbine)
	assert.Equal(t, 5*time.Minute, cfg.SnapshotTTL)
	assert.False(t, cfg.EnableMermaidCharts)
	assert.Empty(t, cfg.CasesCSV)

	_, err = os.Stat(cfg.CacheDir)
	assert.NoError(t, err)
}

func TestFromEnv_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("CASES_CSV", "cases.csv")
	t.Setenv("ACTIONS_CSV", "/abs/actions.csv")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")
	t.Setenv("CASES_PER_TURBINE_TARGET", "4.5")
	t.Setenv("SNAPSHOT_CACHE_TTL_SECONDS", "60")
	t.Setenv("METRICS_FILE", "/tmp/wfdash.prom")

	cfg, err := FromEnv("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cases.csv"), cfg.CasesCSV)
	assert.Equal(t, "/abs/actions.csv", cfg.ActionsCSV)
	assert.True(t, cfg.EnableMermaidCharts)
	assert.Equal(t, 4.5, cfg.CasesPerTurbine)
	assert.Equal(t, time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, "/tmp/wfdash.prom", cfg.MetricsFile)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CASES_PER_TURBINE_TARGET", "0"},
		{"SNAPSHOT_CACHE_TTL_SECONDS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("DATA_PATH", t.TempDir())
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv("")
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_UnparseableFallsBack(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("CASES_PER_TURBINE_TARGET", "lots")

	cfg, err := FromEnv("")
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.CasesPerTurbine)
}
