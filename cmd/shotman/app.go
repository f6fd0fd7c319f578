package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vmunix/shotman/internal/config"
	"github.com/vmunix/shotman/internal/coordinator"
	"github.com/vmunix/shotman/internal/events"
	"github.com/vmunix/shotman/internal/farm"
	"github.com/vmunix/shotman/internal/migrations"
	"github.com/vmunix/shotman/internal/scanner"
	"github.com/vmunix/shotman/internal/shotcache"
	"github.com/vmunix/shotman/internal/shotpaths"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// app is the configuration and logger every command starts from.
type app struct {
	cfg    *config.Config
	path   string
	logger *slog.Logger
}

// loadApp discovers and loads the config named by --config.
func loadApp(stderr io.Writer) (*app, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, fmt.Errorf("%w (run 'shotman config init' to create one)", err)
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			printConfigErrors(stderr, configErr)
			return nil, fmt.Errorf("configuration invalid: %s", path)
		}
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))

	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "detail", w)
	}

	return &app{cfg: cfg, path: path, logger: logger}, nil
}

func (a *app) layout() shotpaths.Layout {
	t := a.cfg.Templates
	return shotpaths.Layout{
		CompRoot:        a.cfg.Paths.CompRoot,
		RenderRoot:      a.cfg.Paths.RenderRoot,
		CacheRoot:       a.cfg.Paths.CacheRoot,
		LegacyCacheRoot: a.cfg.Paths.LegacyCacheRoot,
		Templates: shotpaths.Templates{
			CompExr:    t.CompExr,
			CompMov:    t.CompMov,
			PrecompExr: t.PrecompExr,
			PrecompMov: t.PrecompMov,
		},
	}
}

func (a *app) remapper() shotpaths.Remapper {
	return shotpaths.Remapper{From: a.cfg.Remap.From, To: a.cfg.Remap.To}
}

// openEvents opens the event database. Callers own the returned DB.
func (a *app) openEvents(ctx context.Context) (*sql.DB, *events.Bus, error) {
	db, err := migrations.Open(ctx, a.cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open event database: %w", err)
	}
	bus := events.NewBus(events.NewEventLog(db), a.logger.With("component", "bus"))
	return db, bus, nil
}

// coordinator wires the scanner and cache behind a coordinator. The bus may
// be nil, in which case notifications only reach extra.
func (a *app) coordinator(episode string, bus *events.Bus, extra ...coordinator.Notifier) *coordinator.Coordinator {
	if episode == "" {
		episode = a.cfg.Scan.Episode
	}
	root := a.cfg.Paths.RenderRoot

	notifiers := coordinator.MultiNotifier{coordinator.LogNotifier{Logger: a.logger}}
	if bus != nil {
		notifiers = append(notifiers, events.NewNotifier(bus, root, episode))
	}
	notifiers = append(notifiers, extra...)

	return coordinator.New(
		coordinator.Config{RenderRoot: root, Episode: episode},
		scanner.New(a.logger.With("component", "scanner")),
		shotcache.NewStore(a.cfg.Cache.Path),
		notifiers,
		coordinator.WithLogger(a.logger.With("component", "coordinator")),
	)
}

// loadShots makes sure a shot list is applied, scanning when the cache is
// stale, and waits for it.
func (a *app) loadShots(ctx context.Context, c *coordinator.Coordinator, force bool) error {
	c.EnsureFresh(ctx, force)
	if err := c.Wait(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("wait for scan: %w", err)
	}
	return nil
}

func (a *app) submitter(bus *events.Bus) (*farm.Submitter, error) {
	opts := []farm.Option{farm.WithLogger(a.logger.With("component", "farm"))}
	if bus != nil {
		n := events.NewNotifier(bus, a.cfg.Paths.RenderRoot, a.cfg.Scan.Episode)
		opts = append(opts, farm.WithSubmitted(n.FarmSubmitted))
	}
	return farm.NewSubmitter(farm.Config{
		Command:       a.cfg.Farm.Command,
		TempDir:       a.cfg.Farm.TempDir,
		Pool:          a.cfg.Farm.Pool,
		Group:         a.cfg.Farm.Group,
		PluginVersion: a.cfg.Farm.PluginVersion,
	}, opts...)
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
