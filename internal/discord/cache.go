package discord

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hunterjsb/arabot/internal/gacha"
)

// DatabaseCache keeps a read-only snapshot of the gacha database so slash
// commands do not re-read the file on every interaction. A snapshot is reloaded
// when it expires or when the file on disk changes. It is safe for concurrent use.
type DatabaseCache struct {
	mu sync.RWMutex

	path string
	ttl  time.Duration

	snapshot *cachedItem[*gacha.Database]

	// janitor
	janitorStop chan struct{}
}

// cachedItem wraps a cached value with an expiration time and the modification
// time of the file it was read from.
type cachedItem[T any] struct {
	value     T
	expiresAt time.Time
	modTime   time.Time
}

// NewDatabaseCache creates a cache for the database file at path.
// If ttl is <= 0, a default of 30 seconds is used.
func NewDatabaseCache(path string, ttl time.Duration) *DatabaseCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DatabaseCache{
		path: path,
		ttl:  ttl,
	}
}

// Get returns the cached database, loading it when the snapshot is missing,
// expired, or older than the file. Callers must not modify the result.
func (c *DatabaseCache) Get() (*gacha.Database, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}

	c.mu.RLock()
	item := c.snapshot
	c.mu.RUnlock()

	if item != nil && time.Now().Before(item.expiresAt) && item.modTime.Equal(info.ModTime()) {
		return item.value, nil
	}

	store, err := gacha.Open(c.path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = &cachedItem[*gacha.Database]{
		value:     store.DB(),
		expiresAt: time.Now().Add(c.ttl),
		modTime:   info.ModTime(),
	}
	c.mu.Unlock()

	return store.DB(), nil
}

// Cached reports whether a non-expired snapshot is held.
func (c *DatabaseCache) Cached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot != nil && time.Now().Before(c.snapshot.expiresAt)
}

// Invalidate drops the snapshot so the next Get reloads the file.
func (c *DatabaseCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}

// PurgeExpired drops the snapshot if it has expired.
// This can be called manually or via the janitor.
func (c *DatabaseCache) PurgeExpired() {
	now := time.Now()

	c.mu.Lock()
	if c.snapshot != nil && now.After(c.snapshot.expiresAt) {
		c.snapshot = nil
	}
	c.mu.Unlock()
}

// StartJanitor starts a background goroutine that periodically purges the expired snapshot.
// It returns a function that can be called to stop the janitor.
// If interval <= 0, a default of 5 minutes is used.
func (c *DatabaseCache) StartJanitor(interval time.Duration) func() {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	c.mu.Lock()
	if c.janitorStop != nil {
		close(c.janitorStop)
	}
	stop := make(chan struct{})
	c.janitorStop = stop
	c.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.PurgeExpired()
			case <-stop:
				return
			}
		}
	}()

	return func() {
		c.mu.Lock()
		if c.janitorStop != nil {
			close(c.janitorStop)
			c.janitorStop = nil
		}
		c.mu.Unlock()
	}
}
