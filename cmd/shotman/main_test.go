package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default so commands can run more
// than once per test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	configPath, jsonOutput, logLevel = "", false, ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

type fixture struct {
	dir    string
	render string
	comp   string
	config string
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func newFixture(t *testing.T, shots ...string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		render: filepath.Join(dir, "render"),
		comp:   filepath.Join(dir, "comp"),
		config: filepath.Join(dir, "shotman.toml"),
	}
	require.NoError(t, os.MkdirAll(f.render, 0o755))
	for _, s := range shots {
		touch(t, filepath.Join(f.render, s, "render", "beauty", "beauty.0001.exr"))
	}

	cfg := fmt.Sprintf(`
[paths]
render_root = %q
comp_root = %q

[cache]
path = %q

[database]
path = %q

[log]
level = "error"

[watch]
listen = "127.0.0.1:0"
lock_path = %q

[remap]
from = ["//192.168.99.25/"]
to = "//192.168.99.203/"
`, f.render, f.comp, filepath.Join(dir, "cache.json"), filepath.Join(dir, "shotman.db"), filepath.Join(dir, "watch.lock"))
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o644))
	return f
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Episode", "Shots"}, [][]string{{"ep01", "12"}, {"ep02"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "Episode")
	assert.NotContains(t, out, "EPISODE")
	assert.Contains(t, out, "ep01")
	assert.Contains(t, out, "12")
	assert.Empty(t, renderTable(nil, nil, nil))
}

func TestScan_ThenCached(t *testing.T) {
	f := newFixture(t, "ep01/sq01/sh010", "ep01/sq01/sh020", "ep02/sq03/sh005")

	out, err := run(t, "--config", f.config, "--json", "scan")
	require.NoError(t, err)
	var first scanSummary
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, "scan", first.Source)
	assert.True(t, first.RootFound)
	assert.Equal(t, []string{"ep01_sq01_sh010", "ep01_sq01_sh020", "ep02_sq03_sh005"}, first.Shots)

	out, err = run(t, "--config", f.config, "--json", "scan")
	require.NoError(t, err)
	var second scanSummary
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Equal(t, "cache", second.Source)
	assert.Equal(t, first.Shots, second.Shots)
}

func TestScan_ProgressAndEpisodeFilter(t *testing.T) {
	f := newFixture(t, "ep01/sq01/sh010", "ep02/sq03/sh005")

	out, err := run(t, "--config", f.config, "scan", "--force", "--episode", "ep02")
	require.NoError(t, err)
	assert.Contains(t, out, "Found: ep02_sq03_sh005")
	assert.NotContains(t, out, "ep01_sq01_sh010")
	assert.Contains(t, out, "Found 1 shots")
}

func TestScan_MissingRoot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.render))

	out, err := run(t, "--config", f.config, "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Render root not found")
}

func TestShots(t *testing.T) {
	f := newFixture(t, "ep01/sq01/sh010", "ep01/sq02/sh020", "ep02/sq03/sh005")

	out, err := run(t, "--config", f.config, "shots")
	require.NoError(t, err)
	assert.Contains(t, out, "ep01")
	assert.Contains(t, out, "ep02")
	assert.Contains(t, out, "3 shots")

	out, err = run(t, "--config", f.config, "--json", "shots", "ep01")
	require.NoError(t, err)
	var seqs []string
	require.NoError(t, json.Unmarshal([]byte(out), &seqs))
	assert.Equal(t, []string{"01", "02"}, seqs)

	out, err = run(t, "--config", f.config, "--json", "shots", "--all")
	require.NoError(t, err)
	var all []string
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 3)

	_, err = run(t, "--config", f.config, "shots", "ep09")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	f := newFixture(t, "ep01/sq01/sh010", "ep01/sq01/sh020")

	out, err := run(t, "--config", f.config, "find", "EP01_SQ01_SH020")
	require.NoError(t, err)
	assert.Equal(t, "ep01_sq01_sh020 (2/2)\n", out)

	out, err = run(t, "--config", f.config, "find", "ep01_sq01_sh021")
	require.ErrorIs(t, err, errShotNotFound)
	assert.Contains(t, out, "Did you mean: ep01_sq01_sh020")
}

func TestPathsAndLatest(t *testing.T) {
	f := newFixture(t, "ep01/sq01/sh010")
	nk := filepath.Join(f.comp, "ep01", "sq01", "sh010", "comp", "nk")
	touch(t, filepath.Join(nk, "ep01_sq01_sh010_v01.nk"))
	touch(t, filepath.Join(nk, "ep01_sq01_sh010_v02.nk"))

	out, err := run(t, "--config", f.config, "--json", "paths", "ep01_sq01_sh010")
	require.NoError(t, err)
	var p map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "ep01_sq01_sh010", p["shot"])
	assert.Equal(t, filepath.ToSlash(nk), p["nk_dir"])
	assert.Equal(t, []any{"beauty"}, p["layers"])

	out, err = run(t, "--config", f.config, "latest", "ep01_sq01_sh010")
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(nk, "ep01_sq01_sh010_v02.nk")), strings.TrimSpace(out))

	_, err = run(t, "--config", f.config, "latest", "--movie", "ep01_sq01_sh010")
	assert.Error(t, err)

	_, err = run(t, "--config", f.config, "paths", "not-a-shot")
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	template := filepath.Join(f.dir, "template.nk")
	require.NoError(t, os.WriteFile(template, []byte("Root {}\n"), 0o644))

	out, err := run(t, "--config", f.config, "create", "ep01_sq01_sh010", "--template", template)
	require.NoError(t, err)
	script := filepath.Join(f.comp, "ep01", "sq01", "sh010", "comp", "nk", "ep01_sq01_sh010_v01.nk")
	assert.Contains(t, out, script)
	data, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Equal(t, "Root {}\n", string(data))
	assert.DirExists(t, filepath.Join(f.comp, "ep01", "sq01", "sh010", "comp", "mov", ".thumb"))

	_, err = run(t, "--config", f.config, "create", "ep01_sq01_sh010")
	assert.Error(t, err, "existing scripts are kept without --force")

	_, err = run(t, "--config", f.config, "create", "ep01_sq01_sh010", "--precomp")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.comp, "ep01", "sq01", "sh010", "light_precomp", "nk", "ep01_sq01_sh010_light_precomp.nk"))
}

func TestWritePath(t *testing.T) {
	f := newFixture(t)
	comp := filepath.ToSlash(f.comp)

	out, err := run(t, "--config", f.config, "write-path", "ep01_sq02_sh003_v04.nk", "--format", "mov")
	require.NoError(t, err)
	assert.Equal(t, comp+"/ep01/sq02/sh003/comp/mov/ep01_sq02_sh003_v04.mov\n", out)

	out, err = run(t, "--config", f.config, "write-path", "ep01_sq02_sh003_light_precomp_v02.nk")
	require.NoError(t, err)
	assert.Equal(t, comp+"/ep01/sq02/sh003/light_precomp/exr/ep01_sq02_sh003_precomp.%04d.exr\n", out)

	_, err = run(t, "--config", f.config, "write-path", "ep01_sq02_sh003_v04.nk", "--format", "dpx")
	assert.Error(t, err)
}

func TestRemap(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, "--config", f.config, "remap", "//192.168.99.25/prj/render", "/local/path")
	require.NoError(t, err)
	assert.Equal(t, "//192.168.99.203/prj/render\n/local/path\n", out)

	script := filepath.Join(f.dir, "shot.nk")
	require.NoError(t, os.WriteFile(script, []byte("Read {\n file //192.168.99.25/prj/plate.%04d.exr\n}\n"), 0o644))
	out, err = run(t, "--config", f.config, "remap", "--script", script)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file knobs remapped")

	data, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Contains(t, string(data), "//192.168.99.203/prj/plate.%04d.exr")
}

func TestHistory(t *testing.T) {
	f := newFixture(t, "ep01/sq01/sh010")

	_, err := run(t, "--config", f.config, "scan", "--force")
	require.NoError(t, err)

	out, err := run(t, "--config", f.config, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "scan.started")
	assert.Contains(t, out, "scan.completed")

	out, err = run(t, "--config", f.config, "--json", "history", "--shot", "ep01_sq01_sh010")
	require.NoError(t, err)
	assert.Contains(t, out, "scan.shot_found")
}

func TestConfigInitAndTest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "shotman.toml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run(t, "config", "init", path)
	assert.Error(t, err)

	out, err = run(t, "config", "test", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid!")
	assert.Contains(t, out, "cinderella")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log]\nlevel = \"loud\"\n"), 0o644))
	out, err = run(t, "config", "test", bad)
	require.Error(t, err)
	assert.Contains(t, out, "Validation errors:")
}

func TestWatch_SingleInstance(t *testing.T) {
	f := newFixture(t)
	lock := flock.New(filepath.Join(f.dir, "watch.lock"))
	ok, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = lock.Unlock() })

	_, err = run(t, "--config", f.config, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "shotman dev\n", out)
}
