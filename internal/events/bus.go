package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus fans shot manager events out to in-process subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	allSubs     []chan Event // subscribers to all events
	log         *EventLog    // may be nil
	logger      *slog.Logger
	closed      bool
}

// NewBus creates a bus. A nil log disables persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		log:         log,
		logger:      logger,
	}
}

// Publish persists e, if the bus has a log, and hands it to every matching
// subscriber. Subscribers that are not keeping up lose the event.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if b.isClosed() {
		return nil
	}

	if b.log != nil {
		if _, err := b.log.Append(ctx, e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	// The read lock is held while sending so Close cannot close a channel
	// underneath us; sends never block.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	for _, ch := range b.subscribers[e.EventType()] {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_key", e.EntityKey())
		}
	}
	for _, ch := range b.allSubs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("all-subscriber channel full, dropping event", "type", e.EventType())
		}
	}
	return nil
}

func (b *Bus) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.allSubs = append(b.allSubs, ch)
	return ch
}

// SubscribeEntity returns events for a specific entity.
// It subscribes to all events and filters.
func (b *Bus) SubscribeEntity(entityType, entityKey string, bufferSize int) <-chan Event {
	allCh := b.SubscribeAll(bufferSize * 10) // larger buffer for filtering
	filtered := make(chan Event, bufferSize)

	go func() {
		for e := range allCh {
			if e.EntityType() == entityType && e.EntityKey() == entityKey {
				select {
				case filtered <- e:
				default:
				}
			}
		}
		close(filtered)
	}()

	return filtered
}

// Unsubscribe removes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				close(sub)
				return
			}
		}
	}

	for i, sub := range b.allSubs {
		if sub == ch {
			b.allSubs = append(b.allSubs[:i], b.allSubs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = nil

	for _, ch := range b.allSubs {
		close(ch)
	}
	b.allSubs = nil

	return nil
}
