package shotpaths

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Remapper rewrites paths that still point at retired file servers.
type Remapper struct {
	From []string // old prefixes, e.g. "//192.168.99.25/"
	To   string
}

// Remap replaces the first matching old prefix of path with To. Backslashes
// are treated as forward slashes.
func (r Remapper) Remap(path string) (string, bool) {
	if r.To == "" {
		return path, false
	}
	normalized := strings.ReplaceAll(path, `\`, "/")
	for _, old := range r.From {
		old = strings.ReplaceAll(old, `\`, "/")
		if old != "" && strings.HasPrefix(normalized, old) {
			return r.To + normalized[len(old):], true
		}
	}
	return path, false
}

// RemapScript copies a .nk script from src to dst, remapping the value of
// every "file" knob. It returns how many knobs were changed.
func (r Remapper) RemapScript(src io.Reader, dst io.Writer) (int, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	w := bufio.NewWriter(dst)

	changed := 0
	for scanner.Scan() {
		line := scanner.Text()
		if out, ok := r.remapKnob(line); ok {
			line = out
			changed++
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return changed, fmt.Errorf("write script: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return changed, fmt.Errorf("read script: %w", err)
	}
	if err := w.Flush(); err != nil {
		return changed, fmt.Errorf("write script: %w", err)
	}
	return changed, nil
}

// remapKnob handles lines of the form ` file //server/path` and
// ` file "//server/path"`.
func (r Remapper) remapKnob(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	value, ok := strings.CutPrefix(trimmed, "file ")
	if !ok {
		return line, false
	}
	indent := line[:len(line)-len(trimmed)]

	quoted := len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"'
	if quoted {
		value = value[1 : len(value)-1]
	}
	remapped, ok := r.Remap(value)
	if !ok {
		return line, false
	}
	if quoted {
		remapped = `"` + remapped + `"`
	}
	return indent + "file " + remapped, true
}
