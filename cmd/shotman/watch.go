package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	v1 "github.com/vmunix/shotman/internal/api/v1"
	"github.com/vmunix/shotman/internal/events"
	"github.com/vmunix/shotman/internal/server"
	"golang.org/x/time/rate"
)

// Forced rescans over the API: a burst of two, then one a minute.
const (
	forceScanEvery = time.Minute
	forceScanBurst = 2
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the shot list fresh and serve the local API",
	Long: `Load the shot list, rescan the render root every [watch] interval and
serve the shot API on [watch] listen until interrupted.

Only one watch may run per lock file.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("listen", "", "Override the API listen address")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = a.cfg.Watch.Listen
	}

	lockPath := a.cfg.Watch.LockPath
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another shotman watch is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warn("failed to release watch lock", "error", err)
		}
	}()

	ctx := cmd.Context()
	db, bus, err := a.openEvents(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(db)
	defer closeQuietly(bus)

	c := a.coordinator("", bus)
	log := events.NewEventLog(db)
	api := v1.New(v1.ServerDeps{
		Shots:      c,
		Layout:     a.layout(),
		EventLog:   log,
		Logger:     a.logger,
		ForceLimit: rate.NewLimiter(rate.Every(forceScanEvery), forceScanBurst),
	})

	runner := server.NewRunner(c, log, api.Handler(), server.Config{
		RefreshInterval: a.cfg.Watch.Interval.Duration,
		Listen:          listen,
		EventRetention:  a.cfg.Watch.EventRetention.Duration,
	}, a.logger)

	a.logger.Info("watch started",
		"config", a.path,
		"root", a.cfg.Paths.RenderRoot,
		"episode", a.cfg.Scan.Episode,
		"listen", listen,
		"lock", lockPath)
	return runner.Run(ctx)
}
