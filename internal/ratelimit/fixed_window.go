// Package ratelimit implements fixed-window request counters.
//
// A fixed window keeps a single counter per key that resets when the current
// time crosses the window boundary, as opposed to token-bucket or sliding-window
// schemes. Rejected requests never increment the counter.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// FixedWindow is a fixed-window rate limiter with independent counters per key.
// Safe for concurrent use; each counter is serialized by its own mutex.
type FixedWindow struct {
	window  time.Duration
	max     int
	entries sync.Map // map[string]*windowEntry
	now     func() time.Time
}

// windowEntry holds one counter and its current window start.
// removed is set under mu when cleanup evicts the entry, so a goroutine that
// loaded the pointer before the eviction knows its counter is orphaned.
type windowEntry struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
	removed     bool
}

// NewFixedWindow creates a limiter that admits at most max requests per key
// within each window.
func NewFixedWindow(window time.Duration, max int) *FixedWindow {
	return &FixedWindow{
		window: window,
		max:    max,
		now:    time.Now,
	}
}

// Allow reports whether a request for key is admitted in the current window.
// An admitted request increments the counter; a rejected one does not.
// On rejection, retryAfter is the time remaining until the window resets.
func (l *FixedWindow) Allow(key string) (allowed bool, retryAfter time.Duration) {
	entry := l.lockEntry(key)
	defer entry.mu.Unlock()

	now := l.now()

	// Start a fresh window when the current one has elapsed (or on first touch).
	if now.Sub(entry.windowStart) >= l.window {
		entry.windowStart = now
		entry.count = 0
	}

	if entry.count >= l.max {
		return false, entry.windowStart.Add(l.window).Sub(now)
	}

	entry.count++
	return true, 0
}

// getEntry retrieves or creates the counter entry for a key.
func (l *FixedWindow) getEntry(key string) *windowEntry {
	if val, ok := l.entries.Load(key); ok {
		return val.(*windowEntry)
	}

	entry := &windowEntry{}
	actual, _ := l.entries.LoadOrStore(key, entry)
	return actual.(*windowEntry)
}

// lockEntry returns the live entry for key with its mutex held. When cleanup
// evicted the entry between lookup and lock, the loaded pointer is a
// tombstone and the lookup retries, so an admitted request is never counted
// on an orphaned entry.
func (l *FixedWindow) lockEntry(key string) *windowEntry {
	for {
		entry := l.getEntry(key)
		entry.mu.Lock()
		if !entry.removed {
			return entry
		}
		entry.mu.Unlock()
	}
}

// StartCleanup launches a goroutine that periodically removes counters whose
// window ended before the retention threshold. Prevents unbounded memory growth
// from key churn (client IPs, revoked apps). Stops when ctx is cancelled.
func (l *FixedWindow) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.removeStale(l.now().Add(-2 * l.window))
			}
		}
	}()
}

// removeStale evicts counters whose window ended before the threshold.
// Eviction happens under the entry lock and marks the entry removed, so a
// concurrent Allow holding the stale pointer retries on a live entry
// instead of incrementing an orphan.
func (l *FixedWindow) removeStale(threshold time.Time) {
	l.entries.Range(func(key, value interface{}) bool {
		entry := value.(*windowEntry)
		entry.mu.Lock()
		if entry.windowStart.Before(threshold) {
			entry.removed = true
			l.entries.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}
