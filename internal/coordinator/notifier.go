package coordinator

import (
	"log/slog"
	"time"

	"github.com/vmunix/shotman/internal/shotindex"
	"github.com/vmunix/shotman/pkg/shotid"
)

// Source says where an applied shot list came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceScan  Source = "scan"
)

// Report describes a shot list that has just been applied.
type Report struct {
	Source    Source
	Root      string
	Shots     []shotid.ID
	Cancelled bool
	Skipped   int
	RootFound bool
	CachedAt  time.Time // timestamp of the cache entry (SourceCache) or of the save (SourceScan)
	Duration  time.Duration
}

// Notifier is the set of operations a UI surface implements to follow the
// coordinator. Methods are called on the coordinating context.
type Notifier interface {
	ScanStarted(root string)
	ShotFound(id shotid.ID)
	ScanFinished(r Report)
	NavigationChanged(nav shotindex.Navigation, current shotid.ID)
	Error(err error)
}

// NopNotifier ignores all notifications.
type NopNotifier struct{}

func (NopNotifier) ScanStarted(string)  {}
func (NopNotifier) ShotFound(shotid.ID) {}
func (NopNotifier) ScanFinished(Report) {}
func (NopNotifier) Error(error)         {}

func (NopNotifier) NavigationChanged(shotindex.Navigation, shotid.ID) {}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) log() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

func (n LogNotifier) ScanStarted(root string) {
	n.log().Info("scan started", "root", root)
}

func (n LogNotifier) ShotFound(id shotid.ID) {
	n.log().Debug("found shot", "shot", id.String())
}

func (n LogNotifier) ScanFinished(r Report) {
	if r.Source == SourceScan && !r.RootFound {
		n.log().Warn("render root not found", "root", r.Root)
	}
	n.log().Info("shots loaded",
		"source", r.Source,
		"shots", len(r.Shots),
		"cancelled", r.Cancelled,
		"skipped", r.Skipped,
		"duration_ms", r.Duration.Milliseconds())
}

func (n LogNotifier) NavigationChanged(nav shotindex.Navigation, current shotid.ID) {
	n.log().Debug("navigation changed", "shot", current.String(), "position", nav.Position(), "total", nav.Total)
}

func (n LogNotifier) Error(err error) {
	n.log().Error("shot manager error", "error", err)
}

// MultiNotifier fans notifications out in order.
type MultiNotifier []Notifier

func (m MultiNotifier) ScanStarted(root string) {
	for _, n := range m {
		n.ScanStarted(root)
	}
}

func (m MultiNotifier) ShotFound(id shotid.ID) {
	for _, n := range m {
		n.ShotFound(id)
	}
}

func (m MultiNotifier) ScanFinished(r Report) {
	for _, n := range m {
		n.ScanFinished(r)
	}
}

func (m MultiNotifier) NavigationChanged(nav shotindex.Navigation, current shotid.ID) {
	for _, n := range m {
		n.NavigationChanged(nav, current)
	}
}

func (m MultiNotifier) Error(err error) {
	for _, n := range m {
		n.Error(err)
	}
}
