// Package repository implements principal persistence for the credential relay.
//
// Users live in process memory only: accounts are re-registered per deployment
// and never written to durable storage. Apps are persisted in a bbolt
// key-value store keyed by API key hash, with an optional caching decorator.
package repository

import (
	"context"
	"sync"
	"time"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
)

// MemoryUserRepository implements user persistence with an in-memory map.
// Safe for concurrent use. Lookups are indexed by username and by API key.
type MemoryUserRepository struct {
	mu       sync.RWMutex
	byName   map[string]*authDomain.User
	byAPIKey map[string]*authDomain.User
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byName:   make(map[string]*authDomain.User),
		byAPIKey: make(map[string]*authDomain.User),
	}
}

// Create stores a new user. Returns ErrUsernameTaken when the username is
// already registered.
func (m *MemoryUserRepository) Create(_ context.Context, user *authDomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[user.Username]; exists {
		return authDomain.ErrUsernameTaken
	}

	stored := *user
	m.byName[user.Username] = &stored
	m.byAPIKey[user.APIKey] = &stored
	return nil
}

// Touch records an authenticated access for the user under the repository
// lock. Only access metadata is written, never the API key, so a stale
// snapshot can never overwrite a concurrent rotation. Returns the updated
// record, or ErrUserNotFound if the user does not exist.
func (m *MemoryUserRepository) Touch(_ context.Context, username string, now time.Time) (*authDomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.byName[username]
	if !exists {
		return nil, authDomain.ErrUserNotFound
	}

	user.Touch(now)
	found := *user
	return &found, nil
}

// ReplaceAPIKey swaps the user's API key and re-indexes the record in one
// critical section. The swap is conditional on oldKey still being current:
// a mismatch means another rotation landed first and returns
// ErrKeyRotationConflict, so a retired key is never written back or
// re-indexed. Returns ErrUserNotFound if the user does not exist.
func (m *MemoryUserRepository) ReplaceAPIKey(
	_ context.Context,
	username string,
	oldKey string,
	newKey string,
) (*authDomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.byName[username]
	if !exists {
		return nil, authDomain.ErrUserNotFound
	}
	if user.APIKey != oldKey {
		return nil, authDomain.ErrKeyRotationConflict
	}

	delete(m.byAPIKey, oldKey)
	user.APIKey = newKey
	m.byAPIKey[newKey] = user

	found := *user
	return &found, nil
}

// GetByUsername retrieves a user by username.
// Returns ErrUserNotFound if not found.
func (m *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*authDomain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.byName[username]
	if !exists {
		return nil, authDomain.ErrUserNotFound
	}

	found := *user
	return &found, nil
}

// GetByAPIKey retrieves a user by their current API key.
// Returns ErrUserNotFound if no user holds the key.
func (m *MemoryUserRepository) GetByAPIKey(_ context.Context, apiKey string) (*authDomain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.byAPIKey[apiKey]
	if !exists {
		return nil, authDomain.ErrUserNotFound
	}

	found := *user
	return &found, nil
}
