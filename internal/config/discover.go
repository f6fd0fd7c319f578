package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./shotman.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "shotman", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. SHOTMAN_CONFIG environment variable
//  2. ./shotman.toml (current directory)
//  3. $XDG_CONFIG_HOME/shotman/config.toml
//  4. /etc/shotman/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("SHOTMAN_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("SHOTMAN_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./shotman.toml",
		DefaultPath(),
		"/etc/shotman/config.toml",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
