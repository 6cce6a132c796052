package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
)

// EventStore is the date-keyed history of scraped headlines, backed by one JSON file
type EventStore struct {
	path      string
	order     []string
	snapshots map[string]*headline.Snapshot
	now       func() time.Time
	loc       *time.Location
}

// Option configures an EventStore
type Option func(*EventStore)

// WithClock overrides the clock used by RecordToday
func WithClock(now func() time.Time) Option {
	return func(s *EventStore) { s.now = now }
}

// WithLocation sets the time zone that decides which calendar day "today" is
func WithLocation(loc *time.Location) Option {
	return func(s *EventStore) { s.loc = loc }
}

// ExpandDir expands a leading "~/" in dir to the user's home directory
func ExpandDir(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dir[2:]), nil
}

// EnsureDir creates dir and its parents if they don't exist.
// A leading "~/" is expanded to the user's home directory.
func EnsureDir(dir string) (string, error) {
	expanded, err := ExpandDir(dir)
	if err != nil {
		return "", &DirectoryError{Path: dir, Err: err}
	}

	if err := os.MkdirAll(expanded, 0755); err != nil {
		return "", &DirectoryError{Path: expanded, Err: err}
	}
	return expanded, nil
}

// New creates an empty store that will be saved to path
func New(path string, opts ...Option) *EventStore {
	s := &EventStore{
		path:      path,
		snapshots: make(map[string]*headline.Snapshot),
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

// Load reads the store at path. A missing file yields an empty store.
func Load(path string, opts ...Option) (*EventStore, error) {
	s := New(path, opts...)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No history yet
			return s, nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}

	entries, err := decodeEntries(path, data)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		snap, err := validateSnapshot(path, e)
		if err != nil {
			return nil, err
		}
		s.put(snap)
	}

	return s, nil
}

// Path returns the file the store is saved to
func (s *EventStore) Path() string {
	return s.path
}

// Today returns the date key RecordToday would write to
func (s *EventStore) Today() string {
	return headline.DateKey(s.now(), s.loc)
}

// RecordToday sets today's snapshot to records, replacing any earlier entry for today
func (s *EventStore) RecordToday(records []headline.Record) *headline.Snapshot {
	snap := headline.NewSnapshot(s.Today(), records)
	s.put(snap)
	return snap
}

func (s *EventStore) put(snap *headline.Snapshot) {
	if _, exists := s.snapshots[snap.Date]; !exists {
		s.order = append(s.order, snap.Date)
	}
	s.snapshots[snap.Date] = snap
}

// Get returns the snapshot for date
func (s *EventStore) Get(date string) (*headline.Snapshot, bool) {
	snap, ok := s.snapshots[date]
	return snap, ok
}

// Len returns the number of dates in the store
func (s *EventStore) Len() int {
	return len(s.order)
}

// Dates returns the stored date keys in file order
func (s *EventStore) Dates() []string {
	dates := make([]string, len(s.order))
	copy(dates, s.order)
	return dates
}

// Snapshots returns every snapshot in file order
func (s *EventStore) Snapshots() []*headline.Snapshot {
	out := make([]*headline.Snapshot, 0, len(s.order))
	for _, date := range s.order {
		out = append(out, s.snapshots[date])
	}
	return out
}

// MarshalJSON encodes the store as an object keyed by date, in file order
func (s *EventStore) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, date := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(date)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.snapshots[date])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Save writes the whole store to its path, replacing the previous file
func (s *EventStore) Save() error {
	compact, err := s.MarshalJSON()
	if err != nil {
		return &PersistenceError{Path: s.path, Op: "encoding", Err: err}
	}

	var data bytes.Buffer
	if err := json.Indent(&data, compact, "", "  "); err != nil {
		return &PersistenceError{Path: s.path, Op: "encoding", Err: err}
	}
	data.WriteByte('\n')

	return writeFileAtomic(s.path, data.Bytes())
}

// writeFileAtomic writes data to a temporary file next to path and renames it over path.
// An existing file's permissions are kept; new files get 0644.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Path: path, Op: "creating temp file", Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return &PersistenceError{Path: path, Op: "writing", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &PersistenceError{Path: path, Op: "syncing", Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &PersistenceError{Path: path, Op: "closing", Err: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return &PersistenceError{Path: path, Op: "setting permissions", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &PersistenceError{Path: path, Op: "renaming", Err: err}
	}
	return nil
}
