package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vmunix/shotman/internal/events"
)

// listEvents serves ?since=<RFC3339>, ?shot=<name> or the most recent
// ?limit= events.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		raw []events.RawEvent
		err error
	)
	switch {
	case q.Get("since") != "":
		since, perr := time.Parse(time.RFC3339, q.Get("since"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be RFC3339")
			return
		}
		raw, err = s.deps.EventLog.Since(ctx, since)
	case q.Get("shot") != "":
		raw, err = s.deps.EventLog.ForEntity(ctx, events.EntityShot, q.Get("shot"))
	default:
		limit := queryInt(r, "limit", 50)
		const maxLimit = 1000
		if limit <= 0 || limit > maxLimit {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 1000")
			return
		}
		raw, err = s.deps.EventLog.Recent(ctx, limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	resp := listEventsResponse{Items: make([]eventResponse, len(raw)), Total: len(raw)}
	for i, e := range raw {
		resp.Items[i] = eventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityKey:  e.EntityKey,
			Payload:    json.RawMessage(e.Payload),
			OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
