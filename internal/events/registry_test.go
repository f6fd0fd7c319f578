package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Unmarshal(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventScanCompleted, func() Event { return &ScanCompleted{} })

	raw := RawEvent{
		EventType: EventScanCompleted,
		Payload:   `{"type":"scan.completed","entity_type":"root","entity_key":"/mnt/render","occurred_at":"2024-01-01T00:00:00Z","source":"scan","root":"/mnt/render","shots":42,"cancelled":true,"root_found":true,"duration_ms":1500}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	completed, ok := event.(*ScanCompleted)
	require.True(t, ok)
	assert.Equal(t, 42, completed.Shots)
	assert.True(t, completed.Cancelled)
	assert.Equal(t, "/mnt/render", completed.EntityKey())
	assert.Equal(t, int64(1500), completed.DurationMS)
}

func TestRegistry_UnmarshalUnknownType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Unmarshal(RawEvent{EventType: "unknown.event", Payload: `{}`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestRegistry_UnmarshalInvalidJSON(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventShotFound, func() Event { return &ShotFound{} })

	_, err := registry.Unmarshal(RawEvent{EventType: EventShotFound, Payload: `{invalid json`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal event payload")
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	eventTypes := []string{
		EventScanStarted,
		EventShotFound,
		EventScanCompleted,
		EventScanError,
		EventNavigationChanged,
		EventFarmSubmitted,
	}
	assert.ElementsMatch(t, eventTypes, registry.Types())

	for _, eventType := range eventTypes {
		t.Run(eventType, func(t *testing.T) {
			raw := RawEvent{
				EventType: eventType,
				Payload:   `{"type":"` + eventType + `","entity_type":"shot","entity_key":"ep01_sq01_sh01","occurred_at":"2024-01-01T00:00:00Z"}`,
			}
			event, err := registry.Unmarshal(raw)
			require.NoError(t, err, "Failed to unmarshal %s", eventType)
			assert.Equal(t, eventType, event.EventType())
			assert.Equal(t, "ep01_sq01_sh01", event.EntityKey())
		})
	}
}

func TestRegistry_UnmarshalNavigationChanged(t *testing.T) {
	registry := DefaultRegistry()

	raw := RawEvent{
		EventType: EventNavigationChanged,
		Payload:   `{"type":"navigation.changed","entity_type":"shot","entity_key":"ep02_sq03_sh04","occurred_at":"2024-01-01T12:00:00Z","shot":"ep02_sq03_sh04","position":3,"total":40}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	nav, ok := event.(*NavigationChanged)
	require.True(t, ok)
	assert.Equal(t, "ep02_sq03_sh04", nav.Shot)
	assert.Equal(t, 3, nav.Position)
	assert.Equal(t, 40, nav.Total)
}
