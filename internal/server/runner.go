// Package server runs the long-lived watch mode: periodic rescans, the
// local API and event log housekeeping.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/vmunix/shotman/internal/coordinator"
	"github.com/vmunix/shotman/internal/events"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPruneInterval = time.Hour
	shutdownTimeout      = 30 * time.Second
)

// Refresher is the part of the coordinator the runner drives.
type Refresher interface {
	EnsureFresh(ctx context.Context, force bool) coordinator.Outcome
	Cancel() bool
	Wait(ctx context.Context) error
}

// Config for the runner.
type Config struct {
	RefreshInterval time.Duration // 0 disables periodic rescans
	Listen          string        // empty disables the API server
	EventRetention  time.Duration // 0 keeps events forever
	PruneInterval   time.Duration
}

// Runner manages the watch-mode components.
type Runner struct {
	coord   Refresher
	log     *events.EventLog // may be nil
	handler http.Handler
	config  Config
	logger  *slog.Logger
}

// NewRunner creates a new runner. handler serves the local API.
func NewRunner(coord Refresher, log *events.EventLog, handler http.Handler, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = defaultPruneInterval
	}
	return &Runner{
		coord:   coord,
		log:     log,
		handler: handler,
		config:  cfg,
		logger:  logger.With("component", "runner"),
	}
}

// Run loads the shot list and keeps it fresh until ctx is canceled.
// A running scan is canceled and applied before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	outcome := r.coord.EnsureFresh(ctx, false)
	r.logger.Info("initial shot list", "outcome", outcome.String())

	if r.config.RefreshInterval > 0 {
		g.Go(func() error {
			r.refreshLoop(ctx)
			return nil
		})
	}

	if r.config.Listen != "" && r.handler != nil {
		g.Go(func() error {
			return r.serve(ctx)
		})
	}

	if r.log != nil && r.config.EventRetention > 0 {
		g.Go(func() error {
			r.pruneLoop(ctx)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		if r.coord.Cancel() {
			r.logger.Info("canceling running scan")
		}
		waitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := r.coord.Wait(waitCtx); err != nil {
			return fmt.Errorf("wait for scan: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	r.logger.Info("runner stopped")
	return nil
}

func (r *Runner) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(r.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			outcome := r.coord.EnsureFresh(ctx, true)
			r.logger.Debug("periodic rescan", "outcome", outcome.String())
		}
	}
}

func (r *Runner) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	r.prune(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.prune(ctx)
		}
	}
}

func (r *Runner) prune(ctx context.Context) {
	n, err := r.log.Prune(ctx, r.config.EventRetention)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("failed to prune events", "error", err)
		}
		return
	}
	if n > 0 {
		r.logger.Info("pruned events", "count", n)
	}
}

func (r *Runner) serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Listen, err)
	}

	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("api listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
