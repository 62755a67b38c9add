package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valuctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
target: customApi
origin: stdio://shell
log_level: debug
ready_timeout: 3s
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "customApi", cfg.Target)
	require.Equal(t, "stdio://shell", cfg.Origin)
	require.Equal(t, 3*time.Second, cfg.ReadyTimeout)
	require.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Empty(t, cfg.Target)
	require.Equal(t, defaultReadyTimeout, cfg.ReadyTimeout)
	require.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "parse config")
}

func TestParseParams(t *testing.T) {
	params, err := parseParams(`{"id":"42","n":1}`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"id": "42", "n": float64(1)}, params)

	params, err = parseParams("")
	require.NoError(t, err)
	require.Empty(t, params)

	_, err = parseParams("{")
	require.ErrorContains(t, err, "--params")
}
