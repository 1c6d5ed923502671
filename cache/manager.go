// Package cache provides in-memory caching for derived analytics state.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/makerfolio/makerfolio-go/config"
	"github.com/makerfolio/makerfolio-go/models"
)

/*
=============================================================================
LOCKING NOTES
=============================================================================

The analytics cache has a single RWMutex (models.AnalyticsCache.Mu). All
public methods acquire it themselves; none call other public methods while
holding it. The per-entity write lock (EntityLock in utils.go) is a separate
mechanism and is never taken while holding the cache mutex.
=============================================================================
*/

var GlobalInstance *Manager

// GetGlobalManager returns the global cache manager instance
func GetGlobalManager() *Manager {
	return GlobalInstance
}

// Manager coordinates the in-process analytics caches
type Manager struct {
	analytics *models.AnalyticsCache
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		analytics: &models.AnalyticsCache{
			Summaries:   make(map[string]*models.SummaryCacheEntry),
			Rollups:     make(map[string]*models.RollupCacheEntry),
			LastUpdated: time.Now(),
			Mu:          sync.RWMutex{},
		},
	}
}

func summaryKey(entityID, entityType string) string {
	return fmt.Sprintf("%s:%s", entityType, entityID)
}

// GetSummary retrieves a cached aggregate summary
func (m *Manager) GetSummary(entityID, entityType string) (*models.AggregateSummary, bool) {
	m.analytics.Mu.RLock()
	defer m.analytics.Mu.RUnlock()

	entry, found := m.analytics.Summaries[summaryKey(entityID, entityType)]
	if !found {
		return nil, false
	}

	if IsExpired(entry.ComputedAt, entry.TTL) {
		return nil, false
	}

	return entry.Data, true
}

// SetSummary stores an aggregate summary (write-through from the store)
func (m *Manager) SetSummary(summary *models.AggregateSummary) {
	m.analytics.Mu.Lock()
	defer m.analytics.Mu.Unlock()

	m.analytics.Summaries[summaryKey(summary.EntityID, summary.EntityType)] = &models.SummaryCacheEntry{
		Data:       summary,
		ComputedAt: time.Now().UTC(),
		TTL:        config.SummaryCacheTTL,
	}
	m.analytics.LastUpdated = time.Now()
}

// InvalidateSummary removes a cached summary
func (m *Manager) InvalidateSummary(entityID, entityType string) {
	m.analytics.Mu.Lock()
	defer m.analytics.Mu.Unlock()

	delete(m.analytics.Summaries, summaryKey(entityID, entityType))
}

// GetRollup retrieves a cached owner rollup
func (m *Manager) GetRollup(ownerID string) (*models.OwnerRollup, bool) {
	m.analytics.Mu.RLock()
	defer m.analytics.Mu.RUnlock()

	entry, found := m.analytics.Rollups[ownerID]
	if !found {
		return nil, false
	}

	if IsExpired(entry.ComputedAt, entry.TTL) {
		return nil, false
	}

	return entry.Data, true
}

// SetRollup stores a computed owner rollup
func (m *Manager) SetRollup(ownerID string, rollup *models.OwnerRollup) {
	m.analytics.Mu.Lock()
	defer m.analytics.Mu.Unlock()

	m.analytics.Rollups[ownerID] = &models.RollupCacheEntry{
		Data:       rollup,
		ComputedAt: time.Now().UTC(),
		TTL:        config.RollupTTL,
	}
	m.analytics.LastUpdated = time.Now()
}

// InvalidateRollup removes a cached rollup
func (m *Manager) InvalidateRollup(ownerID string) {
	m.analytics.Mu.Lock()
	defer m.analytics.Mu.Unlock()

	delete(m.analytics.Rollups, ownerID)
}

// Stats returns cache sizing for the health endpoint
func (m *Manager) Stats() models.CacheStats {
	m.analytics.Mu.RLock()
	defer m.analytics.Mu.RUnlock()

	return models.CacheStats{
		Summaries: len(m.analytics.Summaries),
		Rollups:   len(m.analytics.Rollups),
	}
}

// PurgeExpired removes expired summaries and rollups
func (m *Manager) PurgeExpired() {
	m.analytics.Mu.Lock()
	defer m.analytics.Mu.Unlock()

	for key, entry := range m.analytics.Summaries {
		if IsExpired(entry.ComputedAt, entry.TTL) {
			delete(m.analytics.Summaries, key)
		}
	}

	for ownerID, entry := range m.analytics.Rollups {
		if IsExpired(entry.ComputedAt, entry.TTL) {
			delete(m.analytics.Rollups, ownerID)
		}
	}

	m.analytics.LastUpdated = time.Now()
}
