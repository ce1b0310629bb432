package retrylimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type trackerEntry struct {
	failures int
	lastFail time.Time
}

// Tracker counts recent delivery failures per destination. A destination
// that crossed the threshold is muted until its entry ages out; the map is
// purged of stale entries on a fixed interval.
type Tracker struct {
	mu        sync.Mutex
	entries   map[string]trackerEntry
	threshold int
	ttl       time.Duration
}

// NewTracker creates a tracker that mutes a destination after threshold
// failures within ttl.
func NewTracker(threshold int, ttl time.Duration) *Tracker {
	if threshold < 1 {
		threshold = 1
	}
	return &Tracker{
		entries:   make(map[string]trackerEntry),
		threshold: threshold,
		ttl:       ttl,
	}
}

// Failure records a failed delivery to a destination.
func (t *Tracker) Failure(dest string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[dest]
	if time.Since(e.lastFail) > t.ttl {
		e.failures = 0
	}
	e.failures++
	e.lastFail = time.Now()
	t.entries[dest] = e
}

// Success clears a destination's failure record.
func (t *Tracker) Success(dest string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, dest)
}

// Muted reports whether a destination has crossed the failure threshold
// within the ttl window.
func (t *Tracker) Muted(dest string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[dest]
	if !ok || time.Since(e.lastFail) > t.ttl {
		return false
	}
	return e.failures >= t.threshold
}

// Purge drops entries older than the ttl and returns how many were removed.
func (t *Tracker) Purge() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for dest, e := range t.entries {
		if time.Since(e.lastFail) > t.ttl {
			delete(t.entries, dest)
			removed++
		}
	}
	return removed
}

// RunPurger purges the tracker on a fixed interval until ctx is done.
func (t *Tracker) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Purge(); n > 0 {
				slog.Debug("purged retry tracker entries", "count", n)
			}
		}
	}
}
