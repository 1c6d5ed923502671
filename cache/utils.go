package cache

import (
	"sync"
	"time"

	"github.com/makerfolio/makerfolio-go/config"
)

// IsExpired checks if a cached item has exceeded its TTL
// LOCKING: None required (pure computation)
func IsExpired(cachedAt time.Time, ttl time.Duration) bool {
	return time.Since(cachedAt) > ttl
}

// EntityLock serializes writers per entity key. Updates to different
// entities proceed concurrently; two writers on the same entity queue.
type EntityLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEntityLock creates a new per-entity lock set
func NewEntityLock() *EntityLock {
	return &EntityLock{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the lock for the given entity key
func (el *EntityLock) Lock(key string) {
	el.mu.Lock()
	lock, exists := el.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		el.locks[key] = lock
	}
	el.mu.Unlock()

	lock.Lock()
}

// Unlock releases the lock for the given entity key
func (el *EntityLock) Unlock(key string) {
	el.mu.Lock()
	lock, exists := el.locks[key]
	el.mu.Unlock()

	if exists {
		lock.Unlock()
	}
}

// StartCleanupRoutine starts a background goroutine for cache cleanup
func StartCleanupRoutine(manager *Manager) {
	go func() {
		ticker := time.NewTicker(config.CleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			manager.PurgeExpired()
		}
	}()
}
