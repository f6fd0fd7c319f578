package events

import (
	"context"
	"strings"

	"github.com/vmunix/shotman/internal/coordinator"
	"github.com/vmunix/shotman/internal/farm"
	"github.com/vmunix/shotman/internal/shotindex"
	"github.com/vmunix/shotman/pkg/shotid"
)

// Notifier publishes coordinator notifications on a Bus.
type Notifier struct {
	bus     *Bus
	episode string
	root    string
}

var _ coordinator.Notifier = (*Notifier)(nil)

// NewNotifier returns a Notifier for scans of root, optionally limited to one
// episode.
func NewNotifier(bus *Bus, root, episode string) *Notifier {
	return &Notifier{bus: bus, root: root, episode: episode}
}

func (n *Notifier) publish(e Event) {
	_ = n.bus.Publish(context.Background(), e) // Publish only fails on a closed bus
}

func (n *Notifier) ScanStarted(root string) {
	n.publish(&ScanStarted{
		BaseEvent: NewBaseEvent(EventScanStarted, EntityRoot, root),
		Root:      root,
		Episode:   n.episode,
	})
}

func (n *Notifier) ShotFound(id shotid.ID) {
	n.publish(&ShotFound{
		BaseEvent: NewBaseEvent(EventShotFound, EntityShot, id.String()),
		Shot:      id.String(),
	})
}

func (n *Notifier) ScanFinished(r coordinator.Report) {
	n.publish(&ScanCompleted{
		BaseEvent:  NewBaseEvent(EventScanCompleted, EntityRoot, r.Root),
		Source:     string(r.Source),
		Root:       r.Root,
		Shots:      len(r.Shots),
		Cancelled:  r.Cancelled,
		Skipped:    r.Skipped,
		RootFound:  r.RootFound,
		DurationMS: r.Duration.Milliseconds(),
	})
}

func (n *Notifier) NavigationChanged(nav shotindex.Navigation, current shotid.ID) {
	var shot string
	if !current.IsZero() {
		shot = current.String()
	}
	n.publish(&NavigationChanged{
		BaseEvent: NewBaseEvent(EventNavigationChanged, EntityShot, shot),
		Shot:      shot,
		Position:  nav.Position(),
		Total:     nav.Total,
	})
}

func (n *Notifier) Error(err error) {
	n.publish(&ScanError{
		BaseEvent: NewBaseEvent(EventScanError, EntityRoot, n.root),
		Message:   err.Error(),
	})
}

// FarmSubmitted records a job the farm accepted. It matches the callback
// signature of farm.WithSubmitted. Jobs are filed under their shot when the
// script name carries one.
func (n *Notifier) FarmSubmitted(job farm.Job, id string) {
	entity, key := EntityScript, job.ScriptPath
	if shot, ok := shotid.Parse(job.ScriptPath); ok {
		entity, key = EntityShot, shot.String()
	}
	n.publish(&FarmSubmitted{
		BaseEvent: NewBaseEvent(EventFarmSubmitted, entity, key),
		JobID:     id,
		JobName:   job.Name(),
		WriteNode: job.WriteNode,
		DependsOn: strings.Join(job.Dependencies, ","),
	})
}
