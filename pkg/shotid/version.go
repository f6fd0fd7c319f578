package shotid

import (
	"fmt"
	"regexp"
	"strconv"
)

var versionRegex = regexp.MustCompile(`(?i)_v(\d+)`)

// ParseVersion returns the number from the first "_v##" token in name.
// Versions are compared numerically, so "_v10" is newer than "_v9".
func ParseVersion(name string) (int, bool) {
	m := versionRegex.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatVersion renders a version number as v01, v02, ... v100.
func FormatVersion(n int) string {
	return fmt.Sprintf("v%02d", n)
}
