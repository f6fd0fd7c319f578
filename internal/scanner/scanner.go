// Package scanner walks a render tree and finds shots with rendered frames.
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmunix/shotman/pkg/shotid"
)

// frameExt is the only extension that proves a shot has renders.
const frameExt = ".exr"

// Options controls a single scan.
type Options struct {
	Root    string // render root: <root>/ep*/sq*/sh*/render/<layer>/
	Episode string // optional filter; a bare token ("01") or a directory name ("ep01")

	// OnShot is called from the scanning goroutine for each qualifying shot.
	OnShot func(shotid.ID)
}

// Result is the outcome of a scan. It is always usable, even when the
// scan was cancelled or the root was unreachable.
type Result struct {
	Shots     []shotid.ID // deduplicated, sorted by canonical string
	Cancelled bool
	Skipped   int  // directories that could not be listed
	RootFound bool // false when Root did not exist
}

// Walker scans render trees.
type Walker struct {
	logger *slog.Logger
}

// New creates a Walker.
func New(logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{logger: logger}
}

// Scan walks episode, sequence and shot directories under opts.Root.
// Cancellation of ctx is checked at every directory boundary; a cancelled
// scan returns what it found so far. Scan never fails: unreadable
// directories are skipped.
func (w *Walker) Scan(ctx context.Context, opts Options) Result {
	var res Result
	seen := make(map[shotid.ID]bool)

	info, err := os.Stat(opts.Root)
	if err != nil || !info.IsDir() {
		w.logger.Warn("render root not found", "root", opts.Root)
		return res
	}
	res.RootFound = true

	episodes := w.list(opts.Root, "ep", &res)
	filter := normalizeEpisodeFilter(opts.Episode)

walk:
	for _, ep := range episodes {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		if filter != "" && !strings.EqualFold(ep, filter) {
			continue
		}
		epPath := filepath.Join(opts.Root, ep)

		for _, sq := range w.list(epPath, "sq", &res) {
			if ctx.Err() != nil {
				res.Cancelled = true
				break walk
			}
			sqPath := filepath.Join(epPath, sq)

			for _, sh := range w.list(sqPath, "sh", &res) {
				if ctx.Err() != nil {
					res.Cancelled = true
					break walk
				}

				id, ok := shotid.Parse(ep + "_" + sq + "_" + sh)
				if !ok || seen[id] {
					continue
				}
				if !w.hasFrames(filepath.Join(sqPath, sh, "render"), &res) {
					continue
				}

				seen[id] = true
				res.Shots = append(res.Shots, id)
				if opts.OnShot != nil {
					opts.OnShot(id)
				}
			}
		}
	}

	slices.SortFunc(res.Shots, shotid.Compare)

	w.logger.Debug("scan finished",
		"root", opts.Root,
		"shots", len(res.Shots),
		"skipped", res.Skipped,
		"cancelled", res.Cancelled)
	return res
}

// hasFrames reports whether any render layer under renderDir holds a frame.
// It returns on the first frame found.
func (w *Walker) hasFrames(renderDir string, res *Result) bool {
	layers, err := os.ReadDir(renderDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.skip(renderDir, err, res)
		}
		return false
	}

	for _, layer := range layers {
		if !isDir(renderDir, layer) {
			continue
		}
		layerDir := filepath.Join(renderDir, layer.Name())
		files, err := os.ReadDir(layerDir)
		if err != nil {
			w.skip(layerDir, err, res)
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(f.Name()), frameExt) {
				return true
			}
		}
	}
	return false
}

// list returns the names of subdirectories of dir starting with prefix
// (case-insensitive), in directory order.
func (w *Walker) list(dir, prefix string, res *Result) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.skip(dir, err, res)
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !isDir(dir, e) {
			continue
		}
		if len(e.Name()) < len(prefix) || !strings.EqualFold(e.Name()[:len(prefix)], prefix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

func (w *Walker) skip(dir string, err error, res *Result) {
	res.Skipped++
	w.logger.Debug("skipping unreadable directory", "path", dir, "error", err)
}

// isDir follows symlinks, which are common on render shares.
func isDir(parent string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}

// normalizeEpisodeFilter turns "01" into "ep01" and leaves "ep01" alone.
func normalizeEpisodeFilter(episode string) string {
	episode = strings.TrimSpace(episode)
	if episode == "" {
		return ""
	}
	if len(episode) >= 2 && strings.EqualFold(episode[:2], "ep") {
		return episode
	}
	return "ep" + episode
}
