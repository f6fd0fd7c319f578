package shotpaths

import (
	"cmp"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/vmunix/shotman/pkg/shotid"
)

// LatestScript returns the .nk script in nkDir with the highest _v## version.
// Ties and unversioned scripts fall back to name order, so a directory of
// unversioned scripts still yields one.
func LatestScript(nkDir string) (string, error) {
	names, err := filesWithExt(nkDir, ".nk")
	if err != nil || len(names) == 0 {
		return "", ErrNoScripts
	}

	best := slices.MaxFunc(names, func(a, b string) int {
		va, _ := shotid.ParseVersion(a)
		vb, _ := shotid.ParseVersion(b)
		return cmp.Or(cmp.Compare(va, vb), cmp.Compare(a, b))
	})
	return shotid.Join(nkDir, best), nil
}

// LatestMovie returns the versioned .mov in movDir with the highest version.
func LatestMovie(movDir string) (string, int, error) {
	names, err := filesWithExt(movDir, ".mov")
	if err != nil {
		return "", 0, ErrNoMovies
	}

	var best string
	bestVer := -1
	for _, name := range names {
		v, ok := shotid.ParseVersion(name)
		if !ok {
			continue
		}
		if v > bestVer || v == bestVer && name > best {
			best, bestVer = name, v
		}
	}
	if best == "" {
		return "", 0, ErrNoMovies
	}
	return shotid.Join(movDir, best), bestVer, nil
}

// Thumbnail is one review thumbnail of a shot.
type Thumbnail struct {
	Version string `json:"version"` // "v03"
	Path    string `json:"path"`
}

var thumbPattern = regexp.MustCompile(`(?i)^(.+)_v(\d+).*\.(jpg|jpeg|png)$`)

// Thumbnails lists thumbDir's versioned images, newest version first.
// A version that appears more than once keeps the last file in name order.
// A missing directory yields no thumbnails.
func Thumbnails(thumbDir string) []Thumbnail {
	entries, err := os.ReadDir(filepath.FromSlash(thumbDir))
	if err != nil {
		return nil
	}

	byVersion := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := thumbPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		byVersion[n] = shotid.Join(thumbDir, e.Name())
	}

	versions := slices.Sorted(maps.Keys(byVersion))
	slices.Reverse(versions)
	thumbs := make([]Thumbnail, 0, len(versions))
	for _, n := range versions {
		thumbs = append(thumbs, Thumbnail{Version: shotid.FormatVersion(n), Path: byVersion[n]})
	}
	return thumbs
}

func filesWithExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(filepath.FromSlash(dir))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
