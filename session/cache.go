package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/abdurrahim-bayraktar/Filmosphere/tokenstore"
	"github.com/pkg/errors"
)

// FetchFunc retrieves the authoritative profile from the backend
type FetchFunc func(ctx context.Context) (*UserProfile, error)

// Cache makes the user profile available synchronously to every consumer
// without a network round trip, while staying eventually consistent with the
// server. The cached value is only ever replaced wholesale, never merged
// field by field, so no stale field can leak across accounts sharing a device.
type Cache struct {
	store tokenstore.Store
	fetch FetchFunc

	mu      sync.RWMutex
	profile *UserProfile
}

// NewCache creates a profile cache backed by the given token store, primed
// with whatever profile the store already holds
func NewCache(store tokenstore.Store, fetch FetchFunc) (*Cache, error) {
	if store == nil {
		return nil, errors.New("[NewCache] store is required")
	}
	if fetch == nil {
		return nil, errors.New("[NewCache] fetch is required")
	}

	cache := &Cache{store: store, fetch: fetch}

	record, err := store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "[NewCache] load store")
	}
	if s := FromRecord(record); s.Profile != nil {
		cache.profile = s.Profile
	}
	return cache, nil
}

// Get returns the cached profile immediately. It may be stale or nil.
func (c *Cache) Get() *UserProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.profile == nil {
		return nil
	}
	copied := *c.profile
	return &copied
}

// RefreshFromServer fetches the authoritative profile, replaces the cache and
// the persisted profile slot, and returns the fresh value. A failed fetch
// leaves the stale cache intact; only a hard authentication failure (handled
// by the gateway teardown) ever clears profile data.
func (c *Cache) RefreshFromServer(ctx context.Context) (*UserProfile, error) {
	profile, err := c.fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Cache.RefreshFromServer] fetch")
	}
	if err := c.Set(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Set replaces the cached profile wholesale and persists it alongside the tokens
func (c *Cache) Set(profile *UserProfile) error {
	c.mu.Lock()
	c.profile = profile
	c.mu.Unlock()

	record, err := c.store.Load()
	if err != nil {
		return errors.Wrap(err, "[Cache.Set] load store")
	}
	record.Profile = nil
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return errors.Wrap(err, "[Cache.Set] marshal profile")
		}
		record.Profile = data
	}
	if err := c.store.Save(record); err != nil {
		return errors.Wrap(err, "[Cache.Set] save store")
	}
	return nil
}

// Invalidate drops the cached profile. The persisted record is owned by the
// logout / teardown path, which clears the store as a whole.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.profile = nil
	c.mu.Unlock()
}
