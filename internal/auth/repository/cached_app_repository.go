package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
)

// appStore is the inner repository the cache decorates.
type appStore interface {
	Create(ctx context.Context, app *authDomain.App) error
	RecordAccess(ctx context.Context, keyHash string, now time.Time) (*authDomain.App, error)
	GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.App, error)
	List(ctx context.Context) ([]*authDomain.App, error)
	DeleteByName(ctx context.Context, name string) (int, error)
}

// cacheEntry holds a cached app record with its expiry.
type cacheEntry struct {
	app       *authDomain.App
	expiresAt time.Time
}

// CachedAppRepository decorates an app repository with a TTL read cache on
// key-hash lookups. Authentication hits this path on every request, so
// lookups are served from memory and only refreshed from the store after
// the TTL. Concurrent refreshes for the same key are collapsed with
// singleflight. Writes go through to the store synchronously and update
// the cache, so a revoked or rotated credential is never served stale from
// this process.
type CachedAppRepository struct {
	inner appStore
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group

	now func() time.Time
}

// NewCachedAppRepository wraps the given repository with a read cache.
func NewCachedAppRepository(inner appStore, ttl time.Duration) *CachedAppRepository {
	return &CachedAppRepository{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Create stores the app and primes the cache.
func (c *CachedAppRepository) Create(ctx context.Context, app *authDomain.App) error {
	if err := c.inner.Create(ctx, app); err != nil {
		return err
	}
	c.store(app)
	return nil
}

// RecordAccess delegates to the store's atomic access update and refreshes
// the cache with the record it returns. The cache is never the source of the
// increment, so concurrent accesses cannot lose counts here.
func (c *CachedAppRepository) RecordAccess(
	ctx context.Context,
	keyHash string,
	now time.Time,
) (*authDomain.App, error) {
	app, err := c.inner.RecordAccess(ctx, keyHash, now)
	if err != nil {
		return nil, err
	}
	c.store(app)

	found := *app
	return &found, nil
}

// GetByKeyHash returns the cached app when fresh, otherwise fetches from
// the store. A lookup miss is not cached: ErrAppNotFound is cheap and
// negative caching would delay newly registered credentials.
func (c *CachedAppRepository) GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.App, error) {
	c.mu.RLock()
	entry, ok := c.entries[keyHash]
	c.mu.RUnlock()

	if ok && c.now().Before(entry.expiresAt) {
		found := *entry.app
		return &found, nil
	}

	result, err, _ := c.group.Do(keyHash, func() (any, error) {
		app, err := c.inner.GetByKeyHash(ctx, keyHash)
		if err != nil {
			return nil, err
		}
		c.store(app)
		return app, nil
	})
	if err != nil {
		return nil, err
	}

	found := *result.(*authDomain.App)
	return &found, nil
}

// List passes through to the store; administrative listing is rare and
// must see every record.
func (c *CachedAppRepository) List(ctx context.Context) ([]*authDomain.App, error) {
	return c.inner.List(ctx)
}

// DeleteByName removes the apps from the store and drops the whole cache.
// The cache is keyed by hash and names are not indexed, so a full purge is
// the only way to guarantee a revoked credential stops authenticating.
func (c *CachedAppRepository) DeleteByName(ctx context.Context, name string) (int, error) {
	deleted, err := c.inner.DeleteByName(ctx, name)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()

	return deleted, nil
}

// store caches a copy of the app under its key hash.
func (c *CachedAppRepository) store(app *authDomain.App) {
	cached := *app
	c.mu.Lock()
	c.entries[app.KeyHash] = cacheEntry{
		app:       &cached,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}
