package cache

import (
	"context"
	"sync"
	"time"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
)

// DefaultExpiration is used when a non-positive TTL is given
const DefaultExpiration = 5 * time.Minute

// CacheEntry represents a cached account with the time it was stored
type CacheEntry struct {
	Account   entity.Account
	Timestamp time.Time
}

// AccountCache provides a thread-safe in-memory cache of accounts keyed by name
type AccountCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	mutex      sync.RWMutex
}

// NewAccountCache creates a new account cache
func NewAccountCache(expiration time.Duration) *AccountCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	return &AccountCache{
		cache:      make(map[string]CacheEntry),
		expiration: expiration,
	}
}

// Get returns a copy of the cached account if present and not expired
func (c *AccountCache) Get(name string) (*entity.Account, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[name]
	if !exists || time.Since(entry.Timestamp) > c.expiration {
		return nil, false
	}

	account := entry.Account
	return &account, true
}

// Put stores an account under its name
func (c *AccountCache) Put(account entity.Account) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[account.Name] = CacheEntry{
		Account:   account,
		Timestamp: time.Now(),
	}
}

// Delete removes the account with the given name
func (c *AccountCache) Delete(name string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.cache, name)
}

// CleanExpired removes expired entries from the cache
func (c *AccountCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := time.Now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}

	return count
}

// RunCleanup calls CleanExpired every interval until ctx is done. onClean, when
// not nil, receives the number of entries removed by each pass.
func (c *AccountCache) RunCleanup(ctx context.Context, interval time.Duration, onClean func(removed int)) {
	if interval <= 0 {
		interval = c.expiration
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := c.CleanExpired()
			if onClean != nil {
				onClean(removed)
			}
		}
	}
}
