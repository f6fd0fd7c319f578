// Package shotcache persists the most recent scan result.
package shotcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/vmunix/shotman/pkg/shotid"
)

// DefaultMaxAge is how long a saved scan stays fresh.
const DefaultMaxAge = 24 * time.Hour

// TimestampLayout is the on-disk timestamp format, in local time.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is one persisted scan result.
type Entry struct {
	Shots     []shotid.ID // sorted, no duplicates
	Timestamp time.Time
}

// Age returns how old the entry is at now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// fileFormat is the JSON shape shared with the host-side tools.
type fileFormat struct {
	Shots     []string `json:"shots"`
	Timestamp string   `json:"timestamp"`
}

// Load reads the entry at path.
// Returns false if the file is missing, unparsable, or older than maxAge.
// Identifiers that do not parse are dropped individually.
func Load(path string, maxAge time.Duration) (*Entry, bool) {
	return load(path, maxAge, time.Now())
}

func load(path string, maxAge time.Duration, now time.Time) (*Entry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false
	}

	ts, err := time.ParseInLocation(TimestampLayout, f.Timestamp, time.Local)
	if err != nil {
		return nil, false
	}
	if now.Sub(ts) > maxAge {
		return nil, false
	}

	return &Entry{Shots: Normalize(parseAll(f.Shots)), Timestamp: ts}, true
}

// Save writes entry to path, creating parent directories.
// The file is replaced atomically; concurrent writers race and the last
// one wins.
func Save(path string, entry *Entry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	shots := Normalize(entry.Shots)
	f := fileFormat{
		Shots:     make([]string, len(shots)),
		Timestamp: ts.In(time.Local).Format(TimestampLayout),
	}
	for i, id := range shots {
		f.Shots[i] = id.String()
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal shot cache: %w", err)
	}
	return writeFileAtomic(path, data)
}

// Normalize sorts ids by canonical string and removes duplicates.
// The input slice is not modified.
func Normalize(ids []shotid.ID) []shotid.ID {
	out := slices.Clone(ids)
	slices.SortFunc(out, shotid.Compare)
	return slices.Compact(out)
}

func parseAll(names []string) []shotid.ID {
	ids := make([]shotid.ID, 0, len(names))
	for _, n := range names {
		if id, ok := shotid.Parse(n); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// writeFileAtomic writes to a temp file in the same directory and renames
// it over path so readers never see a half-written cache.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Store binds the cache to one file and freshness policy.
type Store struct {
	Path   string
	MaxAge time.Duration
	Now    func() time.Time // defaults to time.Now
}

// NewStore creates a store at path with the default max age.
func NewStore(path string) *Store {
	return &Store{Path: path, MaxAge: DefaultMaxAge}
}

// Load returns the stored entry if it is fresh.
func (s *Store) Load() (*Entry, bool) {
	maxAge := s.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return load(s.Path, maxAge, s.now())
}

// Save replaces the stored entry with shots stamped at the current time.
func (s *Store) Save(shots []shotid.ID) (*Entry, error) {
	e := &Entry{Shots: Normalize(shots), Timestamp: s.now().Truncate(time.Second)}
	if err := Save(s.Path, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// DefaultPath returns the per-user cache location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".shotman", "shot_cache.json")
	}
	return filepath.Join(home, ".shotman", "shot_cache.json")
}
