package v1

import "github.com/vmunix/shotman/internal/shotpaths"

type errorResponse struct {
	Error       string   `json:"error"`
	Code        string   `json:"code"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
	Shots  int    `json:"shots"`
}

type listResponse struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

type scanResponse struct {
	Outcome string `json:"outcome"`
	State   string `json:"state"`
}

type navigationResponse struct {
	Shot        string `json:"shot,omitempty"`
	Index       int    `json:"index"`
	Position    int    `json:"position"`
	Total       int    `json:"total"`
	CanPrevious bool   `json:"can_previous"`
	CanNext     bool   `json:"can_next"`
}

// navigationRequest moves the cursor. Exactly one field should be set;
// Shot wins over Index, Index over Delta.
type navigationRequest struct {
	Shot  string `json:"shot,omitempty"`
	Index *int   `json:"index,omitempty"`
	Delta int    `json:"delta,omitempty"`
}

type thumbnailResponse struct {
	Version string `json:"version"`
	Path    string `json:"path"`
}

type pathsResponse struct {
	shotpaths.Paths
	LatestScript string              `json:"latest_script,omitempty"`
	LatestMovie  string              `json:"latest_movie,omitempty"`
	Layers       []string            `json:"layers"`
	Thumbnails   []thumbnailResponse `json:"thumbnails"`
}

type eventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityKey  string `json:"entity_key"`
	Payload    any    `json:"payload,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type listEventsResponse struct {
	Items []eventResponse `json:"items"`
	Total int             `json:"total"`
}
