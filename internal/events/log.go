package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventLog persists events to SQLite.
type EventLog struct {
	db *sql.DB
}

// NewEventLog creates a new event log.
func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// Append persists an event and returns its row id.
func (l *EventLog) Append(ctx context.Context, e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	result, err := l.db.ExecContext(ctx, `
		INSERT INTO events (event_type, entity_type, entity_key, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityKey(), string(payload), e.OccurredAt().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	return result.LastInsertId()
}

// RawEvent is a persisted event with its JSON payload.
type RawEvent struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityKey  string    `json:"entity_key"`
	Payload    string    `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

const selectEvents = `
	SELECT id, event_type, entity_type, entity_key, payload, occurred_at, created_at
	FROM events`

// Since returns all events that occurred at or after t, oldest first.
func (l *EventLog) Since(ctx context.Context, t time.Time) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx, selectEvents+`
		WHERE occurred_at >= ?
		ORDER BY id ASC`,
		t.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ForEntity returns all events for one root or shot, oldest first.
func (l *EventLog) ForEntity(ctx context.Context, entityType, entityKey string) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx, selectEvents+`
		WHERE entity_type = ? AND entity_key = ?
		ORDER BY id ASC`,
		entityType, entityKey,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Recent returns the last n events, newest first.
func (l *EventLog) Recent(ctx context.Context, n int) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx, selectEvents+`
		ORDER BY id DESC
		LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Prune removes events older than the given duration.
func (l *EventLog) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := l.db.ExecContext(ctx, `DELETE FROM events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]RawEvent, error) {
	var events []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityKey, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
