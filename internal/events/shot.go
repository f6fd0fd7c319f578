package events

// Entity types
const (
	EntityRoot   = "root"   // key is the render root
	EntityShot   = "shot"   // key is the canonical shot name
	EntityScript = "script" // key is a script path that names no shot
)

// Event type constants
const (
	EventScanStarted       = "scan.started"
	EventShotFound         = "scan.shot_found"
	EventScanCompleted     = "scan.completed"
	EventScanError         = "scan.error"
	EventNavigationChanged = "navigation.changed"
	EventFarmSubmitted     = "farm.submitted"
)

// ScanStarted is emitted when a background scan is launched.
type ScanStarted struct {
	BaseEvent
	Root    string `json:"root"`
	Episode string `json:"episode,omitempty"`
}

// ShotFound is emitted for each shot with rendered frames as the scan finds it.
type ShotFound struct {
	BaseEvent
	Shot string `json:"shot"`
}

// ScanCompleted is emitted once a shot list has been applied, from a scan or
// from the cache.
type ScanCompleted struct {
	BaseEvent
	Source     string `json:"source"` // "scan" or "cache"
	Root       string `json:"root"`
	Shots      int    `json:"shots"`
	Cancelled  bool   `json:"cancelled,omitempty"`
	Skipped    int    `json:"skipped,omitempty"`
	RootFound  bool   `json:"root_found"`
	DurationMS int64  `json:"duration_ms"`
}

// ScanError is emitted for failures that do not stop the coordinator,
// such as a cache file that could not be written.
type ScanError struct {
	BaseEvent
	Message string `json:"message"`
}

// NavigationChanged is emitted when the current shot moves.
type NavigationChanged struct {
	BaseEvent
	Shot     string `json:"shot"`
	Position int    `json:"position"` // 1-based
	Total    int    `json:"total"`
}

// FarmSubmitted is emitted for each render job accepted by the farm.
type FarmSubmitted struct {
	BaseEvent
	JobID     string `json:"job_id"`
	JobName   string `json:"job_name"`
	WriteNode string `json:"write_node"`
	DependsOn string `json:"depends_on,omitempty"`
}
