package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(window time.Duration, max int) (*FixedWindow, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter := NewFixedWindow(window, max)
	limiter.now = clock.Now
	return limiter, clock
}

func TestFixedWindow_AdmitsUpToMax(t *testing.T) {
	limiter, _ := newTestLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("10.0.0.1")
		assert.True(t, allowed, "request %d should be admitted", i)
	}

	allowed, retryAfter := limiter.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestFixedWindow_ResetsAfterWindowElapses(t *testing.T) {
	limiter, clock := newTestLimiter(time.Minute, 2)

	for i := 0; i < 2; i++ {
		allowed, _ := limiter.Allow("key")
		assert.True(t, allowed)
	}

	allowed, _ := limiter.Allow("key")
	assert.False(t, allowed)

	// Crossing the window boundary starts a fresh counter.
	clock.Advance(time.Minute)

	allowed, _ = limiter.Allow("key")
	assert.True(t, allowed)
}

func TestFixedWindow_RejectionDoesNotIncrement(t *testing.T) {
	limiter, clock := newTestLimiter(time.Minute, 1)

	allowed, _ := limiter.Allow("key")
	assert.True(t, allowed)

	// Hammer the limiter well past the ceiling; the counter must not go negative
	// or push the reset further out.
	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("key")
		assert.False(t, allowed)
	}

	clock.Advance(time.Minute)

	allowed, _ = limiter.Allow("key")
	assert.True(t, allowed)
}

func TestFixedWindow_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(time.Minute, 1)

	allowed, _ := limiter.Allow("10.0.0.1")
	assert.True(t, allowed)

	allowed, _ = limiter.Allow("10.0.0.1")
	assert.False(t, allowed)

	// A different key has its own counter.
	allowed, _ = limiter.Allow("10.0.0.2")
	assert.True(t, allowed)
}

func TestFixedWindow_ConcurrentRequestsNeverExceedMax(t *testing.T) {
	const max = 50
	limiter, _ := newTestLimiter(time.Minute, max)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("shared"); allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, max, admitted)
}

func TestFixedWindow_AllowRetriesWhenCleanupEvictsEntry(t *testing.T) {
	limiter, clock := newTestLimiter(10*time.Millisecond, 1)

	allowed, _ := limiter.Allow("churn-key")
	assert.True(t, allowed)

	// Simulate the race: a goroutine loaded the entry pointer, then the
	// entry went stale and cleanup evicted it before the lock was taken.
	stale := limiter.getEntry("churn-key")
	clock.Advance(time.Second)
	limiter.removeStale(clock.Now().Add(-2 * limiter.window))

	// The evicted pointer is a tombstone; the locked lookup must land on a
	// live entry so the admitted request is counted.
	entry := limiter.lockEntry("churn-key")
	entry.mu.Unlock()
	assert.NotSame(t, stale, entry)

	allowed, _ = limiter.Allow("churn-key")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("churn-key")
	assert.False(t, allowed)
}

func TestFixedWindow_CleanupRemovesStaleEntries(t *testing.T) {
	limiter, clock := newTestLimiter(10*time.Millisecond, 1)

	limiter.Allow("stale-key")
	clock.Advance(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter.StartCleanup(ctx, time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := limiter.entries.Load("stale-key")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
