package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/hospital-links/internal/config"
)

// isolate points HOME and the working directory at empty temp dirs so that
// no real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Events.Log)
	assert.True(t, cfg.Events.Metrics)
	assert.False(t, cfg.Events.Prometheus)
	assert.Equal(t, ".", cfg.Scenario.Dir)
	assert.Equal(t, config.DefaultParallel, cfg.Scenario.Parallel)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	yaml := "logging:\n  format: json\nscenario:\n  parallel: 2\n  fail_fast: true\nevents:\n  prometheus: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("HOSPITAL_LINKS_LOG_LEVEL", "debug")
	t.Setenv("HOSPITAL_LINKS_SCENARIO_DIR", "/tmp/scripts")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 2, cfg.Scenario.Parallel)
	assert.True(t, cfg.Scenario.FailFast)
	assert.True(t, cfg.Events.Prometheus)
	assert.Equal(t, "/tmp/scripts", cfg.Scenario.Dir)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  format: xml\n"), 0o600))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating config")
}
