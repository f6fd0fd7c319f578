package v1

import (
	"context"
	"log/slog"

	"github.com/vmunix/shotman/internal/coordinator"
	"github.com/vmunix/shotman/internal/events"
	"github.com/vmunix/shotman/internal/shotindex"
	"github.com/vmunix/shotman/internal/shotpaths"
	"github.com/vmunix/shotman/pkg/shotid"
	"golang.org/x/time/rate"
)

// Shots is the coordinator surface the API reads and drives.
type Shots interface {
	Index() *shotindex.Index
	State() coordinator.State
	EnsureFresh(ctx context.Context, force bool) coordinator.Outcome
	Navigation() shotindex.Navigation
	Current() (shotid.ID, bool)
	Move(delta int) shotindex.Navigation
	GoTo(id shotid.ID) (shotindex.Navigation, bool)
	GoToIndex(i int) (shotindex.Navigation, bool)
}

// ServerDeps contains everything the API server needs.
type ServerDeps struct {
	Shots    Shots            // required
	Layout   shotpaths.Layout // comp/cache roots for path lookups
	EventLog *events.EventLog // optional
	Logger   *slog.Logger     // optional

	// ForceLimit throttles POST /scan?force=true. Nil means unlimited.
	ForceLimit *rate.Limiter
}
