package shotpaths

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Layer is one render layer directory of a shot.
type Layer struct {
	Name  string `json:"name"`
	Dir   string `json:"dir"`
	First string `json:"first,omitempty"` // first .exr frame, if any
}

// RenderLayers lists the layer directories under renderDir, sorted by name.
// Names are NFC-normalized so layers created on macOS shares compare equal
// to the same names typed elsewhere.
func RenderLayers(renderDir string) []Layer {
	entries, err := os.ReadDir(filepath.FromSlash(renderDir))
	if err != nil {
		return nil
	}

	var layers []Layer
	for _, e := range entries {
		if !isDir(renderDir, e) {
			continue
		}
		dir := renderDir + "/" + e.Name()
		layers = append(layers, Layer{
			Name:  norm.NFC.String(e.Name()),
			Dir:   dir,
			First: firstFrame(dir),
		})
	}
	slices.SortFunc(layers, func(a, b Layer) int { return strings.Compare(a.Name, b.Name) })
	return layers
}

// FindLayer returns the layer whose name occurs in path, such as the layer a
// Read node points at.
func FindLayer(layers []Layer, path string) (Layer, bool) {
	path = norm.NFC.String(path)
	for _, l := range layers {
		if strings.Contains(path, l.Name) {
			return l, true
		}
	}
	return Layer{}, false
}

func firstFrame(dir string) string {
	names, err := filesWithExt(dir, ".exr")
	if err != nil || len(names) == 0 {
		return ""
	}
	return dir + "/" + slices.Min(names)
}

func isDir(parent string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(filepath.FromSlash(parent), e.Name()))
	return err == nil && info.IsDir()
}
