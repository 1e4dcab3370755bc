package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8787", cfg.Web.Addr)
	assert.True(t, cfg.UI.ConfirmDelete)
	assert.Equal(t, 60, cfg.UI.PreviewWidth)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_UserConfigThenExplicitThenEnv(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, xdg, "tasktree/config.yaml", "log:\n  level: debug\nweb:\n  addr: 0.0.0.0:9000\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:9000", cfg.Web.Addr)

	explicit := writeFile(t, t.TempDir(), "override.yaml", "web:\n  addr: 127.0.0.1:1234\nui:\n  confirm_delete: false\n")
	cfg, err = Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level, "user config still applies")
	assert.Equal(t, "127.0.0.1:1234", cfg.Web.Addr)
	assert.False(t, cfg.UI.ConfirmDelete)

	t.Setenv("TASKTREE_WEB_ADDR", "localhost:7000")
	cfg, err = Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "localhost:7000", cfg.Web.Addr)
}

func TestLoad_MissingUserConfigIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingExplicitConfigFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFromPath_ClampsPreviewWidth(t *testing.T) {
	p := writeFile(t, t.TempDir(), "c.yaml", "ui:\n  preview_width: 3\noutput:\n  format: YAML\n")
	cfg, err := LoadFromPath(p)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.UI.PreviewWidth)
	assert.Equal(t, "yaml", cfg.Output.Format)
}
