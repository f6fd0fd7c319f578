package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var episodeFilterPattern = regexp.MustCompile(`(?i)^(ep)?\d+$`)

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Paths.RenderRoot == "" {
		errs = append(errs, "paths.render_root: required")
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if c.Scan.Episode != "" && !episodeFilterPattern.MatchString(c.Scan.Episode) {
		errs = append(errs, fmt.Sprintf("scan.episode: must look like 01 or ep01, got %q", c.Scan.Episode))
	}

	for _, t := range []struct{ key, tmpl string }{
		{"templates.comp_exr", c.Templates.CompExr},
		{"templates.comp_mov", c.Templates.CompMov},
		{"templates.precomp_exr", c.Templates.PrecompExr},
		{"templates.precomp_mov", c.Templates.PrecompMov},
	} {
		if t.tmpl != "" && !strings.Contains(t.tmpl, "{sh}") {
			errs = append(errs, fmt.Sprintf("%s: must contain {sh}", t.key))
		}
	}

	if c.Watch.Interval.Duration < 0 {
		errs = append(errs, "watch.interval: must not be negative")
	}
	if c.Watch.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Watch.Listen); err != nil {
			errs = append(errs, fmt.Sprintf("watch.listen: %v", err))
		}
	}
	if c.Watch.EventRetention.Duration < 0 {
		errs = append(errs, "watch.event_retention: must not be negative")
	}

	if c.Farm.Priority < 0 || c.Farm.Priority > 100 {
		errs = append(errs, fmt.Sprintf("farm.priority: must be between 0 and 100, got %d", c.Farm.Priority))
	}

	if len(c.Remap.From) > 0 && c.Remap.To == "" {
		errs = append(errs, "remap.to: required when remap.from is set")
	}
	for _, from := range c.Remap.From {
		if from == "" {
			errs = append(errs, "remap.from: empty prefix")
		}
	}

	return errs
}

// Warnings reports conditions that do not stop shotman but are worth
// surfacing, such as roots that are not mounted.
func (c *Config) Warnings() []string {
	var warns []string
	for key, dir := range map[string]string{
		"paths.render_root":       c.Paths.RenderRoot,
		"paths.comp_root":         c.Paths.CompRoot,
		"paths.cache_root":        c.Paths.CacheRoot,
		"paths.legacy_cache_root": c.Paths.LegacyCacheRoot,
	} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			warns = append(warns, fmt.Sprintf("%s: directory %q does not exist", key, dir))
		}
	}
	if c.Paths.CompRoot == "" {
		warns = append(warns, "paths.comp_root: not set, shot paths and write paths are unavailable")
	}
	return sortedCopy(warns)
}
