package config

import (
	"fmt"
	"strings"
)

// Error aggregates configuration problems so they can be reported together.
type Error struct {
	Path    string
	Missing []string // unresolved environment variables
	Errors  []string // validation failures
}

func (e *Error) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var parts []string
	if e.Path != "" {
		parts = append(parts, "config "+e.Path+":")
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing environment variables: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Errors) > 0 {
		parts = append(parts, "validation failed:")
		for _, err := range e.Errors {
			parts = append(parts, "  - "+err)
		}
	}
	return strings.Join(parts, "\n")
}

// HasErrors returns true if there are any errors.
func (e *Error) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
