// Package coordinator keeps the shot list fresh and drives shot navigation.
//
// A Coordinator serves a fresh cached scan when it has one and otherwise
// walks the render tree on a single background worker. Results are applied
// in one step on the coordinating context: index swap, cache save,
// navigation update, notification.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmunix/shotman/internal/scanner"
	"github.com/vmunix/shotman/internal/shotcache"
	"github.com/vmunix/shotman/internal/shotindex"
	"github.com/vmunix/shotman/pkg/shotid"
)

// State is the scan lifecycle state.
type State int

const (
	StateIdle State = iota
	StateScanning
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	default:
		return "idle"
	}
}

// Outcome is the result of an EnsureFresh request.
type Outcome int

const (
	OutcomeCached     Outcome = iota // fresh cache applied, no scan
	OutcomeStarted                   // background scan launched
	OutcomeInProgress                // rejected: a scan is already running
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCached:
		return "cached"
	case OutcomeStarted:
		return "started"
	case OutcomeInProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}

// Scanner walks a render tree.
type Scanner interface {
	Scan(ctx context.Context, opts scanner.Options) scanner.Result
}

// Cache persists scan results between sessions.
type Cache interface {
	Load() (*shotcache.Entry, bool)
	Save(shots []shotid.ID) (*shotcache.Entry, error)
}

// Dispatcher runs fn on the coordinating context (for a host UI, its main
// thread). It may run fn later but must run each fn exactly once, in order.
type Dispatcher func(fn func())

// Inline runs fn immediately on the calling goroutine.
func Inline(fn func()) { fn() }

// Config holds what to scan.
type Config struct {
	RenderRoot string
	Episode    string // optional episode filter
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDispatcher sets how worker results reach the coordinating context.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Coordinator) {
		if d != nil {
			c.dispatch = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Coordinator owns the shot index and navigation state.
type Coordinator struct {
	cfg      Config
	scanner  Scanner
	cache    Cache
	notifier Notifier
	dispatch Dispatcher
	logger   *slog.Logger

	// index is replaced wholesale, never mutated; readers holding an old
	// index keep a consistent view.
	index atomic.Pointer[shotindex.Index]

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	done    chan struct{} // closed once the in-flight scan has been applied
	nav     shotindex.Navigation
	current shotid.ID
	scans   int
}

// New creates a Coordinator. notifier may be nil.
func New(cfg Config, s Scanner, cache Cache, notifier Notifier, opts ...Option) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	c := &Coordinator{
		cfg:      cfg,
		scanner:  s,
		cache:    cache,
		notifier: notifier,
		dispatch: Inline,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.index.Store(shotindex.Empty())
	return c
}

// EnsureFresh makes sure a shot list is loaded. Without force, a fresh cache
// entry is applied synchronously. Otherwise a background scan is launched and
// EnsureFresh returns immediately; ctx bounds the scan's lifetime.
// While a scan is running every call returns OutcomeInProgress.
func (c *Coordinator) EnsureFresh(ctx context.Context, force bool) Outcome {
	c.mu.Lock()
	if c.state == StateScanning {
		c.mu.Unlock()
		c.logger.Info("scan already in progress")
		return OutcomeInProgress
	}

	if !force {
		if entry, ok := c.cache.Load(); ok {
			c.applyLocked(entry.Shots)
			nav, current := c.nav, c.current
			c.mu.Unlock()

			c.notifier.ScanFinished(Report{
				Source:    SourceCache,
				Root:      c.cfg.RenderRoot,
				Shots:     entry.Shots,
				RootFound: true,
				CachedAt:  entry.Timestamp,
			})
			c.notifier.NavigationChanged(nav, current)
			return OutcomeCached
		}
	}

	scanCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.state = StateScanning
	c.cancel = cancel
	c.done = done
	c.scans++
	c.mu.Unlock()

	c.logger.Info("scan started", "root", c.cfg.RenderRoot, "episode", c.cfg.Episode, "forced", force)
	c.notifier.ScanStarted(c.cfg.RenderRoot)

	go c.run(scanCtx, cancel, done)
	return OutcomeStarted
}

// Refresh forces a rescan.
func (c *Coordinator) Refresh(ctx context.Context) Outcome {
	return c.EnsureFresh(ctx, true)
}

// run is the worker. It only touches shared state through dispatch.
func (c *Coordinator) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	start := time.Now()
	res := c.scanner.Scan(ctx, scanner.Options{
		Root:    c.cfg.RenderRoot,
		Episode: c.cfg.Episode,
		OnShot: func(id shotid.ID) {
			c.dispatch(func() { c.notifier.ShotFound(id) })
		},
	})
	elapsed := time.Since(start)

	c.dispatch(func() {
		defer close(done)
		defer cancel()
		c.complete(res, elapsed)
	})
}

func (c *Coordinator) complete(res scanner.Result, elapsed time.Duration) {
	shots := shotcache.Normalize(res.Shots)
	report := Report{
		Source:    SourceScan,
		Root:      c.cfg.RenderRoot,
		Shots:     shots,
		Cancelled: res.Cancelled,
		Skipped:   res.Skipped,
		RootFound: res.RootFound,
		Duration:  elapsed,
	}

	c.mu.Lock()
	c.applyLocked(shots)
	nav, current := c.nav, c.current
	entry, saveErr := c.cache.Save(shots)
	c.mu.Unlock()

	if saveErr != nil {
		c.logger.Error("failed to save shot cache", "error", saveErr)
		c.notifier.Error(fmt.Errorf("save shot cache: %w", saveErr))
	} else {
		report.CachedAt = entry.Timestamp
	}

	c.logger.Info("scan complete",
		"shots", len(shots),
		"cancelled", res.Cancelled,
		"skipped", res.Skipped,
		"duration_ms", elapsed.Milliseconds())
	c.notifier.ScanFinished(report)
	c.notifier.NavigationChanged(nav, current)

	c.mu.Lock()
	c.state = StateIdle
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()
}

// applyLocked swaps in a new index and re-anchors navigation on the shot
// that was current, falling back to the first shot. c.mu must be held.
func (c *Coordinator) applyLocked(shots []shotid.ID) {
	idx := shotindex.Build(shots)
	c.index.Store(idx)

	pos := 0
	if !c.current.IsZero() {
		if i, ok := idx.IndexOf(c.current); ok {
			pos = i
		}
	}
	c.setNavLocked(idx, shotindex.NewNavigation(pos, idx.Len()))
}

func (c *Coordinator) setNavLocked(idx *shotindex.Index, nav shotindex.Navigation) {
	c.nav = nav
	c.current, _ = idx.At(nav.Current)
}

// Cancel asks the running scan to stop. The partial result is still applied.
// Returns false if no scan is running.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

// Wait blocks until the in-flight scan, if any, has been applied.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Scans returns how many background scans have been launched.
func (c *Coordinator) Scans() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scans
}

// Index returns the current index. It is never nil and never mutated.
func (c *Coordinator) Index() *shotindex.Index {
	return c.index.Load()
}

// Navigation returns the current cursor.
func (c *Coordinator) Navigation() shotindex.Navigation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav
}

// Current returns the shot under the cursor.
func (c *Coordinator) Current() (shotid.ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.nav.Valid()
}

// Move shifts the cursor by delta, clamped at both ends.
func (c *Coordinator) Move(delta int) shotindex.Navigation {
	c.mu.Lock()
	before := c.nav
	idx := c.index.Load()
	c.setNavLocked(idx, c.nav.Move(delta))
	nav, current := c.nav, c.current
	c.mu.Unlock()

	if nav != before {
		c.notifier.NavigationChanged(nav, current)
	}
	return nav
}

// Next moves to the following shot.
func (c *Coordinator) Next() shotindex.Navigation { return c.Move(1) }

// Previous moves to the preceding shot.
func (c *Coordinator) Previous() shotindex.Navigation { return c.Move(-1) }

// GoTo moves the cursor to id. Unknown shots leave navigation unchanged.
func (c *Coordinator) GoTo(id shotid.ID) (shotindex.Navigation, bool) {
	c.mu.Lock()
	idx := c.index.Load()
	i, ok := idx.IndexOf(id)
	if !ok {
		nav := c.nav
		c.mu.Unlock()
		return nav, false
	}
	return c.goToLocked(idx, i)
}

// GoToIndex moves the cursor to position i of the flat list.
// Out-of-range positions leave navigation unchanged.
func (c *Coordinator) GoToIndex(i int) (shotindex.Navigation, bool) {
	c.mu.Lock()
	return c.goToLocked(c.index.Load(), i)
}

// goToLocked is entered with c.mu held and releases it before notifying.
func (c *Coordinator) goToLocked(idx *shotindex.Index, i int) (shotindex.Navigation, bool) {
	nav, ok := c.nav.To(i)
	if !ok {
		c.mu.Unlock()
		return nav, false
	}
	changed := nav != c.nav
	c.setNavLocked(idx, nav)
	current := c.current
	c.mu.Unlock()

	if changed {
		c.notifier.NavigationChanged(nav, current)
	}
	return nav, true
}

// SetContext points navigation at the shot the host has open, identified by
// its script path or project directory. When neither names a known shot the
// cursor goes to the first shot.
func (c *Coordinator) SetContext(scriptPath, projectDir string) (shotid.ID, bool) {
	if id, ok := shotid.FromContext(scriptPath, projectDir); ok {
		if _, ok := c.GoTo(id); ok {
			return id, true
		}
	}
	if _, ok := c.GoToIndex(0); !ok {
		return shotid.ID{}, false
	}
	return c.Current()
}
