// Package shotpaths derives the project paths around a shot: comp and
// precomp directories, camera caches, scripts, movies, thumbnails, render
// layers and write-node outputs.
package shotpaths

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmunix/shotman/pkg/shotid"
)

// Layout holds the server roots a shot's paths hang off.
type Layout struct {
	CompRoot        string
	RenderRoot      string
	CacheRoot       string
	LegacyCacheRoot string
	Templates       Templates
}

// Paths is every location shotman knows about for one shot.
type Paths struct {
	Shot          shotid.ID `json:"-"`
	Name          string    `json:"shot"`
	CompDir       string    `json:"comp_dir"`
	PrecompDir    string    `json:"precomp_dir"`
	CameraFile    string    `json:"camera_file"`
	NkDir         string    `json:"nk_dir"`
	ExrDir        string    `json:"exr_dir"`
	MovDir        string    `json:"mov_dir"`
	ThumbDir      string    `json:"thumb_dir"`
	PrecompNkDir  string    `json:"precomp_nk_dir"`
	PrecompMovDir string    `json:"precomp_mov_dir"`
	RenderDir     string    `json:"render_dir"`
}

const cameraFile = "src/shot_camera.abc"

// For returns the paths of id. The camera file comes from the cache root
// when it exists there and from the legacy cache root otherwise.
func (l Layout) For(id shotid.ID) (Paths, error) {
	if l.CompRoot == "" {
		return Paths{}, ErrNoCompRoot
	}

	comp := shotid.Join(l.CompRoot, id.Dir(), "comp")
	precomp := shotid.Join(l.CompRoot, id.Dir(), "light_precomp")

	p := Paths{
		Shot:          id,
		Name:          id.String(),
		CompDir:       comp,
		PrecompDir:    precomp,
		CameraFile:    l.camera(id),
		NkDir:         shotid.Join(comp, "nk"),
		ExrDir:        shotid.Join(comp, "exr"),
		MovDir:        shotid.Join(comp, "mov"),
		ThumbDir:      shotid.Join(comp, "mov", ".thumb"),
		PrecompNkDir:  shotid.Join(precomp, "nk"),
		PrecompMovDir: shotid.Join(precomp, "mov"),
	}
	if l.RenderRoot != "" {
		p.RenderDir = shotid.RenderDir(l.RenderRoot, id)
	}
	return p, nil
}

func (l Layout) camera(id shotid.ID) string {
	if l.CacheRoot == "" && l.LegacyCacheRoot == "" {
		return ""
	}
	current := shotid.Join(l.CacheRoot, id.Dir(), cameraFile)
	if l.LegacyCacheRoot == "" || l.CacheRoot != "" && exists(current) {
		return current
	}
	return shotid.Join(l.LegacyCacheRoot, id.Dir(), cameraFile)
}

// NewScriptName is the name of the first comp script of a shot.
func NewScriptName(id shotid.ID) string {
	return id.String() + "_v01.nk"
}

// PrecompScriptName is the name of a shot's light precomp script.
func PrecompScriptName(id shotid.ID) string {
	return id.String() + "_light_precomp.nk"
}

// EnsureScriptDirs creates the comp nk, exr, mov and thumbnail directories.
func EnsureScriptDirs(p Paths) error {
	return mkdirs(p.NkDir, p.ExrDir, p.MovDir, p.ThumbDir)
}

// EnsurePrecompDirs creates the light precomp nk and mov directories.
func EnsurePrecompDirs(p Paths) error {
	return mkdirs(p.PrecompNkDir, p.PrecompMovDir)
}

func mkdirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.FromSlash(d), 0755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// CreateScript copies template to dst, creating dst's directory.
// Returns ErrDestinationExists unless overwrite is set. An empty template
// creates an empty script.
func CreateScript(template, dst string, overwrite bool) (err error) {
	dst = filepath.FromSlash(dst)
	if !overwrite && exists(dst) {
		return ErrDestinationExists
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close script: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if template == "" {
		return nil
	}
	in, err := os.Open(filepath.FromSlash(template))
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer func() { _ = in.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy template: %w", err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(filepath.FromSlash(path))
	return err == nil
}
