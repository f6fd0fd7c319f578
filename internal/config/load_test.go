package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shotman.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[paths]
render_root = "//server/prj/render"
comp_root = "//server/prj/comp"

[scan]
episode = "02"

[watch]
interval = "5m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "//server/prj/render", cfg.Paths.RenderRoot)
	assert.Equal(t, "//server/prj/comp", cfg.Paths.CompRoot)
	assert.Equal(t, "02", cfg.Scan.Episode)
	assert.Equal(t, 5*time.Minute, cfg.Watch.Interval.Duration)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[paths]
render_root = "/mnt/render"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8585", cfg.Watch.Listen)
	assert.Equal(t, 15*time.Minute, cfg.Watch.Interval.Duration)
	assert.Equal(t, "deadlinecommand", cfg.Farm.Command)
	assert.Equal(t, "nuke", cfg.Farm.Pool)
	assert.Equal(t, "14.0", cfg.Farm.PluginVersion)
	assert.Equal(t, 100, cfg.Farm.Priority)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(cfg.Cache.Path), ".shotman/shot_cache.json"), cfg.Cache.Path)
	assert.Contains(t, cfg.Templates.CompExr, "{ep}_{sq}_{sh}.%04d.exr")
}

func TestLoad_MissingEnvVar(t *testing.T) {
	os.Unsetenv("SHOTMAN_MISSING_ROOT")
	path := writeConfig(t, `
[paths]
render_root = "${SHOTMAN_MISSING_ROOT}"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"SHOTMAN_MISSING_ROOT"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "SHOTMAN_MISSING_ROOT")
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "verbose"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "paths.render_root")
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
[paths]
render_root = "/mnt/render"

[watch]
interval = "soon"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoadWithoutValidation(t *testing.T) {
	path := writeConfig(t, `
[farm]
priority = 500
`)

	cfg, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Farm.Priority)
	assert.NotEmpty(t, cfg.Validate())
}

func TestLoad_EnvVarDefault(t *testing.T) {
	os.Unsetenv("SHOTMAN_OPTIONAL_ROOT")
	path := writeConfig(t, `
[paths]
render_root = "${SHOTMAN_OPTIONAL_ROOT:-/mnt/render}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/render", cfg.Paths.RenderRoot)
}
