// Package shotid parses and formats ep/sq/sh shot identifiers.
package shotid

import (
	"regexp"
	"strings"
)

// canonicalRegex matches the three numeric tokens of a shot name.
// The digit runs stop at the first non-digit, so suffixes like "_v01" or
// "_light_precomp" do not prevent a match.
var canonicalRegex = regexp.MustCompile(`(?i)ep(\d+)_sq(\d+)_sh(\d+)`)

// pathRegex matches the same tokens spread over directory levels.
var pathRegex = regexp.MustCompile(`(?i)ep(\d+)[/\\]sq(\d+)[/\\]sh(\d+)`)

// ID identifies one shot. Tokens are stored verbatim: "01" and "1" are
// different episodes.
type ID struct {
	Episode  string
	Sequence string
	Shot     string
}

// Parse extracts a shot identifier from text.
// Returns false if the text has no ep##_sq##_sh## run.
func Parse(text string) (ID, bool) {
	m := canonicalRegex.FindStringSubmatch(text)
	if m == nil {
		return ID{}, false
	}
	return ID{Episode: m[1], Sequence: m[2], Shot: m[3]}, true
}

// FromPath extracts a shot identifier from a directory path such as
// "/proj/ep01/sq02/sh030/comp". Either separator is accepted.
func FromPath(path string) (ID, bool) {
	m := pathRegex.FindStringSubmatch(path)
	if m == nil {
		return ID{}, false
	}
	return ID{Episode: m[1], Sequence: m[2], Shot: m[3]}, true
}

// FromContext resolves the shot a host session is working on.
// The script file name wins over the project directory.
func FromContext(scriptPath, projectDir string) (ID, bool) {
	if scriptPath != "" {
		name := scriptPath
		if i := strings.LastIndexAny(name, `/\`); i >= 0 {
			name = name[i+1:]
		}
		if id, ok := Parse(name); ok {
			return id, true
		}
	}
	if projectDir != "" {
		return FromPath(projectDir)
	}
	return ID{}, false
}

// String returns the canonical form ep<e>_sq<s>_sh<h>.
func (id ID) String() string {
	return "ep" + id.Episode + "_sq" + id.Sequence + "_sh" + id.Shot
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Compare orders identifiers by canonical string.
func Compare(a, b ID) int {
	return strings.Compare(a.String(), b.String())
}

// Less reports whether a sorts before b.
func Less(a, b ID) bool {
	return Compare(a, b) < 0
}

// Dir returns the ep<e>/sq<s>/sh<h> directory triple joined with "/".
func (id ID) Dir() string {
	return "ep" + id.Episode + "/sq" + id.Sequence + "/sh" + id.Shot
}

// Join joins a root and path elements with "/" regardless of platform.
// The host normalizes separators at its own boundary.
func Join(root string, elem ...string) string {
	out := strings.TrimRight(root, `/\`)
	rooted := out == "" && root != ""
	for _, e := range elem {
		e = strings.Trim(e, `/\`)
		if e == "" {
			continue
		}
		if out != "" || rooted {
			out += "/"
		}
		out += e
		rooted = false
	}
	if out == "" && root != "" {
		return "/"
	}
	return out
}

// RenderDir returns root/ep<e>/sq<s>/sh<h>/render.
func RenderDir(root string, id ID) string {
	return Join(root, id.Dir(), "render")
}
