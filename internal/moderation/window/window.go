// Package window provides the sliding-window trackers behind spam and
// join-rate detection. State is in-memory only and reset on restart;
// the detections it feeds are live signals, not historical records.
package window

import (
	"sync"
	"time"
)

// Entry is one observed event inside a window.
type Entry struct {
	ID string // author or joining member
	At time.Time
}

// Tracker maintains sliding windows of timestamped entries keyed by an
// arbitrary string (guild ID for joins, guild:user for message bursts).
// A Tracker is owned by the process and injected into each detector so
// tests get isolated instances.
type Tracker struct {
	mu      sync.Mutex
	windows map[string][]Entry
}

func NewTracker() *Tracker {
	return &Tracker{windows: make(map[string][]Entry)}
}

// Observe purges entries older than the window, appends a new entry for
// id and returns a copy of the resulting window, oldest first.
func (t *Tracker) Observe(key, id string, window time.Duration) []Entry {
	now := time.Now()
	cutoff := now.Add(-window)

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.windows[key]
	kept := entries[:0]
	for _, e := range entries {
		if e.At.After(cutoff) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, Entry{ID: id, At: now})
	t.windows[key] = kept

	out := make([]Entry, len(kept))
	copy(out, kept)
	return out
}

// Count reports how many entries are currently inside the window without
// recording a new one.
func (t *Tracker) Count(key string, window time.Duration) int {
	cutoff := time.Now().Add(-window)

	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, e := range t.windows[key] {
		if e.At.After(cutoff) {
			n++
		}
	}
	return n
}

// Reset clears a window. Detectors call this after a trip so the same
// burst or cohort cannot re-trigger.
func (t *Tracker) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.windows, key)
}

// Cleanup removes windows whose newest entry is older than maxIdle and
// returns how many were dropped. Called periodically to bound memory.
func (t *Tracker) Cleanup(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, entries := range t.windows {
		if len(entries) == 0 || entries[len(entries)-1].At.Before(cutoff) {
			delete(t.windows, key)
			removed++
		}
	}
	return removed
}

// Stats reports the tracker's current footprint.
type Stats struct {
	ActiveWindows int
	TotalEntries  int
}

func (t *Tracker) GetStats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{}
	for _, entries := range t.windows {
		s.ActiveWindows++
		s.TotalEntries += len(entries)
	}
	return s
}
