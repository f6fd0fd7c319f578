package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := DefaultPath()
	assert.Contains(t, path, ".config/shotman/config.toml")
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	path := DefaultPath()
	assert.Equal(t, "/custom/config/shotman/config.toml", path)
}

func TestDiscover_EnvOverride(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "custom.toml")
	err := os.WriteFile(cfgPath, []byte("[paths]"), 0644)
	require.NoError(t, err, "failed to create test config")

	t.Setenv("SHOTMAN_CONFIG", cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_EnvOverrideNotFound(t *testing.T) {
	t.Setenv("SHOTMAN_CONFIG", "/nonexistent/config.toml")

	_, err := Discover()
	require.Error(t, err, "expected error for missing SHOTMAN_CONFIG")
	assert.Contains(t, err.Error(), "SHOTMAN_CONFIG")
}

func TestDiscover_CurrentDir(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	defer func() {
		err := os.Chdir(origDir)
		assert.NoError(t, err, "failed to restore working directory")
	}()

	t.Setenv("SHOTMAN_CONFIG", "")

	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "shotman.toml")
	err = os.WriteFile(cfgPath, []byte("[paths]"), 0644)
	require.NoError(t, err, "failed to create test config")
	err = os.Chdir(tmp)
	require.NoError(t, err, "failed to change directory")

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, "shotman.toml", filepath.Base(path))
}

func TestDiscover_NotFound(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	defer func() {
		err := os.Chdir(origDir)
		assert.NoError(t, err, "failed to restore working directory")
	}()

	t.Setenv("SHOTMAN_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")

	tmp := t.TempDir()
	err = os.Chdir(tmp)
	require.NoError(t, err, "failed to change directory")

	_, err = Discover()
	require.Error(t, err, "expected error when no config found")
	assert.Contains(t, err.Error(), "config not found")
}
