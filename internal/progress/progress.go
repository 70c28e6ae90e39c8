// Package progress persists the journey record: which blessings have been
// displayed, how many pages are loaded, and how many times the user clicked.
//
// Persistence fails soft in both directions. A save failure is a logged
// warning and the in-memory state stays authoritative; a malformed or stale
// stored record reads back as empty defaults and the store is cleared.
package progress

import (
	"encoding/json"
	"time"

	"github.com/kaiwen/blessings/internal/kv"
	"github.com/kaiwen/blessings/internal/logging"
)

// Key is the fixed key the journey record is stored under.
const Key = "1024_blessing_progress"

// MaxAge is how long a saved journey stays valid. Records older than this
// are discarded on load and the journey starts over.
const MaxAge = 7 * 24 * time.Hour

// Record is the persisted journey state. Field names match the stored JSON.
type Record struct {
	DisplayedBlessings []string `json:"displayedBlessings"`
	CurrentPage        int      `json:"currentPage"`
	ClickCount         int      `json:"clickCount"`
	Timestamp          int64    `json:"timestamp"` // epoch millis
}

// Store reads and writes the journey record through the key-value store.
type Store struct {
	kv *kv.Store

	// now is swappable for tests
	now func() time.Time
}

// NewStore creates a progress store over the given key-value store.
func NewStore(store *kv.Store) *Store {
	return &Store{kv: store, now: time.Now}
}

// Save serializes the journey state under Key with the current timestamp.
func (s *Store) Save(seen []string, pages, clicks int) error {
	rec := Record{
		DisplayedBlessings: seen,
		CurrentPage:        pages,
		ClickCount:         clicks,
		Timestamp:          s.now().UnixMilli(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.kv.Put(Key, string(data)); err != nil {
		return err
	}

	logging.Debug("Progress saved", "seen", len(seen), "pages", pages, "clicks", clicks)
	return nil
}

// Load reads the journey record.
//
// Fails soft: a missing key, malformed JSON, a non-object payload, or a
// timestamp older than MaxAge all yield an empty Record with no error, and
// the bad/stale entry is cleared. Missing fields fall back to zero values.
func (s *Store) Load() (Record, error) {
	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logging.Warn("Discarding malformed progress record", "error", err)
		s.Clear()
		return Record{}, nil
	}

	age := s.now().UnixMilli() - rec.Timestamp
	if age > MaxAge.Milliseconds() {
		logging.Info("Discarding expired progress record", "ageMillis", age)
		s.Clear()
		return Record{}, nil
	}

	logging.Debug("Progress loaded",
		"seen", len(rec.DisplayedBlessings),
		"pages", rec.CurrentPage,
		"clicks", rec.ClickCount)
	return rec, nil
}

// Clear removes the persisted record. Failure is logged, not fatal.
func (s *Store) Clear() {
	if err := s.kv.Delete(Key); err != nil {
		logging.Error("Failed to clear progress record", "error", err)
	}
}
