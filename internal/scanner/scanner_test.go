package scanner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/shotman/pkg/shotid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// touch creates a file (and its parents) under root.
func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	p := filepath.Join(append([]string{root}, rel...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, nil, 0644))
}

func mkdir(t *testing.T, root string, rel ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(append([]string{root}, rel...)...), 0755))
}

func names(ids []shotid.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func TestWalker_Scan_FindsRenderedShots(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "ep01", "sq01", "sh01", "render", "beauty", "frame.0001.exr")
	mkdir(t, root, "ep01", "sq01", "sh02", "render", "beauty")

	res := New(testLogger()).Scan(context.Background(), Options{Root: root})

	assert.True(t, res.RootFound)
	assert.False(t, res.Cancelled)
	assert.Equal(t, []string{"ep01_sq01_sh01"}, names(res.Shots))
}

func TestWalker_Scan_SortedAndCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "ep02", "sq01", "sh01", "render", "beauty", "a.0001.EXR")
	touch(t, root, "ep01", "sq10", "sh01", "render", "specular", "a.0001.exr")
	touch(t, root, "ep01", "sq02", "sh05", "render", "beauty", "a.0001.exr")
	// non-frame files never qualify
	touch(t, root, "ep01", "sq03", "sh01", "render", "beauty", "a.0001.jpg")
	// files directly in render/ are not layers
	touch(t, root, "ep01", "sq04", "sh01", "render", "a.0001.exr")

	res := New(testLogger()).Scan(context.Background(), Options{Root: root})

	assert.Equal(t, []string{
		"ep01_sq02_sh05",
		"ep01_sq10_sh01",
		"ep02_sq01_sh01",
	}, names(res.Shots))
}

func TestWalker_Scan_IgnoresForeignDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "assets", "sq01", "sh01", "render", "beauty", "a.exr")
	touch(t, root, "ep01", "tmp", "sh01", "render", "beauty", "a.exr")
	touch(t, root, "ep01", "sq01", "sh01", "render", "beauty", "a.exr")

	res := New(testLogger()).Scan(context.Background(), Options{Root: root})
	assert.Equal(t, []string{"ep01_sq01_sh01"}, names(res.Shots))
}

func TestWalker_Scan_EpisodeFilter(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "ep01", "sq01", "sh01", "render", "beauty", "a.exr")
	touch(t, root, "ep02", "sq01", "sh01", "render", "beauty", "a.exr")

	w := New(testLogger())

	res := w.Scan(context.Background(), Options{Root: root, Episode: "02"})
	assert.Equal(t, []string{"ep02_sq01_sh01"}, names(res.Shots))

	res = w.Scan(context.Background(), Options{Root: root, Episode: "ep01"})
	assert.Equal(t, []string{"ep01_sq01_sh01"}, names(res.Shots))
}

func TestWalker_Scan_MissingRoot(t *testing.T) {
	res := New(testLogger()).Scan(context.Background(), Options{Root: filepath.Join(t.TempDir(), "missing")})

	assert.False(t, res.RootFound)
	assert.Empty(t, res.Shots)
	assert.False(t, res.Cancelled)
}

func TestWalker_Scan_OnShotProgress(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "ep01", "sq01", "sh01", "render", "beauty", "a.exr")
	touch(t, root, "ep01", "sq01", "sh02", "render", "beauty", "a.exr")

	var found []string
	res := New(testLogger()).Scan(context.Background(), Options{
		Root:   root,
		OnShot: func(id shotid.ID) { found = append(found, id.String()) },
	})

	assert.Len(t, res.Shots, 2)
	assert.ElementsMatch(t, []string{"ep01_sq01_sh01", "ep01_sq01_sh02"}, found)
}

func TestWalker_Scan_CancelledReturnsSubset(t *testing.T) {
	root := t.TempDir()
	for _, sh := range []string{"sh01", "sh02", "sh03"} {
		touch(t, root, "ep01", "sq01", sh, "render", "beauty", "a.exr")
		touch(t, root, "ep02", "sq01", sh, "render", "beauty", "a.exr")
	}

	w := New(testLogger())
	full := w.Scan(context.Background(), Options{Root: root})
	require.Len(t, full.Shots, 6)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	partial := w.Scan(ctx, Options{
		Root:   root,
		OnShot: func(shotid.ID) { cancel() },
	})

	assert.True(t, partial.Cancelled)
	assert.Len(t, partial.Shots, 1)
	assert.Subset(t, names(full.Shots), names(partial.Shots))
}

func TestWalker_Scan_AlreadyCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "ep01", "sq01", "sh01", "render", "beauty", "a.exr")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(testLogger()).Scan(ctx, Options{Root: root})
	assert.True(t, res.Cancelled)
	assert.Empty(t, res.Shots)
}

func TestWalker_Scan_SkipsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	root := t.TempDir()
	touch(t, root, "ep01", "sq01", "sh01", "render", "beauty", "a.exr")
	touch(t, root, "ep01", "sq02", "sh01", "render", "beauty", "a.exr")

	locked := filepath.Join(root, "ep01", "sq02")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	res := New(testLogger()).Scan(context.Background(), Options{Root: root})

	assert.Equal(t, []string{"ep01_sq01_sh01"}, names(res.Shots))
	assert.Equal(t, 1, res.Skipped)
}

func TestNormalizeEpisodeFilter(t *testing.T) {
	assert.Equal(t, "", normalizeEpisodeFilter(" "))
	assert.Equal(t, "ep01", normalizeEpisodeFilter("01"))
	assert.Equal(t, "EP01", normalizeEpisodeFilter("EP01"))
}
