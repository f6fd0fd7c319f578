package events

import (
	"encoding/json"
	"fmt"
	"slices"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for deserialization.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates a new event registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal deserializes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}

	return event, nil
}

// DefaultRegistry returns a registry with every shot manager event registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(EventScanStarted, func() Event { return &ScanStarted{} })
	r.Register(EventShotFound, func() Event { return &ShotFound{} })
	r.Register(EventScanCompleted, func() Event { return &ScanCompleted{} })
	r.Register(EventScanError, func() Event { return &ScanError{} })
	r.Register(EventNavigationChanged, func() Event { return &NavigationChanged{} })
	r.Register(EventFarmSubmitted, func() Event { return &FarmSubmitted{} })

	return r
}

// Types returns the registered event types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
