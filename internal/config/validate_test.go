package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Paths.RenderRoot = "/mnt/render"
	return cfg
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate_MinimalValid(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no render root", func(c *Config) { c.Paths.RenderRoot = "" }, "paths.render_root"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad episode", func(c *Config) { c.Scan.Episode = "pilot" }, "scan.episode"},
		{"template without shot", func(c *Config) { c.Templates.CompExr = "/out/%04d.exr" }, "templates.comp_exr"},
		{"bad listen", func(c *Config) { c.Watch.Listen = "localhost" }, "watch.listen"},
		{"priority too high", func(c *Config) { c.Farm.Priority = 101 }, "farm.priority"},
		{"remap without target", func(c *Config) { c.Remap.From = []string{"//old/"} }, "remap.to"},
		{"empty remap prefix", func(c *Config) { c.Remap = RemapConfig{From: []string{""}, To: "//new/"} }, "remap.from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			assert.True(t, containsError(errs, tt.want), "expected %s error, got %v", tt.want, errs)
		})
	}
}

func TestValidate_EpisodeForms(t *testing.T) {
	for _, ep := range []string{"01", "ep01", "EP12", ""} {
		cfg := validConfig()
		cfg.Scan.Episode = ep
		assert.Empty(t, cfg.Validate(), ep)
	}
}

func TestWarnings(t *testing.T) {
	tmp := t.TempDir()
	cfg := validConfig()
	cfg.Paths.RenderRoot = tmp
	cfg.Paths.CompRoot = filepath.Join(tmp, "missing")

	warns := cfg.Warnings()
	assert.True(t, containsError(warns, "paths.comp_root"), "got %v", warns)
	assert.False(t, containsError(warns, "paths.render_root"), "got %v", warns)

	cfg.Paths.CompRoot = ""
	assert.True(t, containsError(cfg.Warnings(), "not set"))
}
