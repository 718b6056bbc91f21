package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultIngestPort, cfg.Ingest.Port)
	assert.True(t, cfg.Ingest.Enabled)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Zero(t, cfg.MaxSpins)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ingest:
  port: 18000
  token: secret
log:
  level: debug
max_spins: 500
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 18000, cfg.Ingest.Port)
	assert.Equal(t, "secret", cfg.Ingest.Token)
	assert.True(t, cfg.Ingest.Enabled, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 500, cfg.MaxSpins)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ingest: [oops"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"ORACLE_INGEST_PORT":    "19000",
		"ORACLE_INGEST_TOKEN":   "tok",
		"ORACLE_INGEST_ENABLED": "false",
		"ORACLE_LOG_LEVEL":      "WARN",
		"ORACLE_MAX_SPINS":      "20",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, 19000, cfg.Ingest.Port)
	assert.Equal(t, "tok", cfg.Ingest.Token)
	assert.False(t, cfg.Ingest.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 20, cfg.MaxSpins)

	env["ORACLE_INGEST_PORT"] = "abc"
	assert.Error(t, cfg.applyEnv(lookup))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Ingest.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxSpins = -1
	assert.Error(t, cfg.Validate())
}
