// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Project   ProjectConfig   `toml:"project"`
	Paths     PathsConfig     `toml:"paths"`
	Templates TemplatesConfig `toml:"templates"`
	Cache     CacheConfig     `toml:"cache"`
	Scan      ScanConfig      `toml:"scan"`
	Database  DatabaseConfig  `toml:"database"`
	Log       LogConfig       `toml:"log"`
	Watch     WatchConfig     `toml:"watch"`
	Farm      FarmConfig      `toml:"farm"`
	Remap     RemapConfig     `toml:"remap"`
}

type ProjectConfig struct {
	Name   string  `toml:"name"`
	Format string  `toml:"format"`
	FPS    float64 `toml:"fps"`
}

// PathsConfig holds the server roots. They are used as opaque prefixes and
// joined with "/".
type PathsConfig struct {
	RenderRoot      string `toml:"render_root"`
	CompRoot        string `toml:"comp_root"`
	CacheRoot       string `toml:"cache_root"`
	LegacyCacheRoot string `toml:"legacy_cache_root"`
}

// TemplatesConfig holds write-node output templates. Placeholders:
// {comp_root}, {ep}, {sq}, {sh} and {ver}.
type TemplatesConfig struct {
	CompExr    string `toml:"comp_exr"`
	CompMov    string `toml:"comp_mov"`
	PrecompExr string `toml:"precomp_exr"`
	PrecompMov string `toml:"precomp_mov"`
}

type CacheConfig struct {
	Path string `toml:"path"`
}

type ScanConfig struct {
	Episode string `toml:"episode"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type WatchConfig struct {
	Interval       Duration `toml:"interval"`
	Listen         string   `toml:"listen"`
	LockPath       string   `toml:"lock_path"`
	EventRetention Duration `toml:"event_retention"`
}

type FarmConfig struct {
	Command       string `toml:"command"`
	Pool          string `toml:"pool"`
	Group         string `toml:"group"`
	PluginVersion string `toml:"plugin_version"`
	Priority      int    `toml:"priority"`
	TempDir       string `toml:"temp_dir"`
}

type RemapConfig struct {
	From []string `toml:"from"`
	To   string   `toml:"to"`
}

// Duration is a time.Duration that reads and writes TOML strings like "15m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads, substitutes, decodes, defaults and validates the config file.
// Unresolved variables and validation problems come back as *Error.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &Error{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation loads the config but skips Validate. Used by
// "config test" to report every problem at once.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &Error{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config with every default applied and no roots set.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Project.Name == "" {
		c.Project.Name = "default"
	}
	if c.Templates.CompExr == "" {
		c.Templates.CompExr = "{comp_root}/{ep}/{sq}/{sh}/comp/exr/{ep}_{sq}_{sh}.%04d.exr"
	}
	if c.Templates.CompMov == "" {
		c.Templates.CompMov = "{comp_root}/{ep}/{sq}/{sh}/comp/mov/{ep}_{sq}_{sh}_{ver}.mov"
	}
	if c.Templates.PrecompExr == "" {
		c.Templates.PrecompExr = "{comp_root}/{ep}/{sq}/{sh}/light_precomp/exr/{ep}_{sq}_{sh}_precomp.%04d.exr"
	}
	if c.Templates.PrecompMov == "" {
		c.Templates.PrecompMov = "{comp_root}/{ep}/{sq}/{sh}/light_precomp/mov/{ep}_{sq}_{sh}_precomp_{ver}.mov"
	}
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(dataDir(), "shot_cache.json")
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(dataDir(), "shotman.db")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Watch.Interval.Duration == 0 {
		c.Watch.Interval.Duration = 15 * time.Minute
	}
	if c.Watch.Listen == "" {
		c.Watch.Listen = "127.0.0.1:8585"
	}
	if c.Watch.LockPath == "" {
		c.Watch.LockPath = filepath.Join(dataDir(), "watch.lock")
	}
	if c.Watch.EventRetention.Duration == 0 {
		c.Watch.EventRetention.Duration = 30 * 24 * time.Hour
	}
	if c.Farm.Command == "" {
		c.Farm.Command = "deadlinecommand"
	}
	if c.Farm.Pool == "" {
		c.Farm.Pool = "nuke"
	}
	if c.Farm.Group == "" {
		c.Farm.Group = "nuke"
	}
	if c.Farm.PluginVersion == "" {
		c.Farm.PluginVersion = "14.0"
	}
	if c.Farm.Priority == 0 {
		c.Farm.Priority = 100
	}
	if c.Farm.TempDir == "" {
		c.Farm.TempDir = os.TempDir()
	}
}

// dataDir is where per-user state lives: the shot cache, the event database
// and the watch lock.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shotman"
	}
	return filepath.Join(home, ".shotman")
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands variable references. References that cannot be
// resolved are left in place and reported in missing. Comment lines are
// copied through untouched.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		var m []string
		lines[i], m = substituteLine(line)
		missing = append(missing, m...)
	}
	return strings.Join(lines, ""), missing
}

func substituteLine(line string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}
