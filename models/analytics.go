package models

import (
	"sync"
	"time"
)

// =============================================================================
// Aggregate Summary (persisted, one document per entity)
// =============================================================================

// DailyBucket is one calendar day's count within a series
type DailyBucket struct {
	Date  string `json:"date"` // day key, e.g. 2026-09-01
	Count int    `json:"count"`
}

// AggregateSummary holds the incrementally-updated derived state for one
// (entity, entity-type) pair. Persisted back as a whole document on update.
//
// Invariants after any single-entity update sequence:
//   - TotalCounts[k] == sum of DailySeries[k] counts
//   - len(UniqueActors[k]) == UniqueCounts[k] <= TotalCounts[k]
type AggregateSummary struct {
	EntityID     string                     `json:"entityId"`
	EntityType   string                     `json:"entityType"`
	TotalCounts  map[string]int             `json:"totalCounts"`
	UniqueActors map[string]map[string]bool `json:"uniqueActors"`
	UniqueCounts map[string]int             `json:"uniqueCounts"`
	DailySeries  map[string][]DailyBucket   `json:"dailySeries"`
	LastUpdated  time.Time                  `json:"lastUpdated"`
}

// NewAggregateSummary returns the zero-state summary for an entity
func NewAggregateSummary(entityID, entityType string) *AggregateSummary {
	return &AggregateSummary{
		EntityID:     entityID,
		EntityType:   entityType,
		TotalCounts:  make(map[string]int),
		UniqueActors: make(map[string]map[string]bool),
		UniqueCounts: make(map[string]int),
		DailySeries:  make(map[string][]DailyBucket),
	}
}

// =============================================================================
// Query Result Types (computed on read, never persisted)
// =============================================================================

// TopKEntry is one ranked actor with display info resolved at query time
type TopKEntry struct {
	ActorID          string    `json:"actorId"`
	DisplayName      string    `json:"displayName"`
	AvatarURL        string    `json:"avatarUrl"`
	InteractionCount int       `json:"interactionCount"`
	LastInteraction  time.Time `json:"lastInteraction"`
}

// OwnerRollup merges every owned item's summary plus the profile's own
// summary into one owner-level view
type OwnerRollup struct {
	OwnerID       string                   `json:"ownerId"`
	Totals        map[string]int           `json:"totals"`
	UniqueTotals  map[string]int           `json:"uniqueTotals"`
	DailySeries   map[string][]DailyBucket `json:"dailySeries"`
	TopViewers    []TopKEntry              `json:"topViewers"`
	TopLikers     []TopKEntry              `json:"topLikers"`
	TopCommenters []TopKEntry              `json:"topCommenters"`
}

// ItemAnalytics is the per-item dashboard panel
type ItemAnalytics struct {
	EntityID      string                   `json:"entityId"`
	Totals        map[string]int           `json:"totals"`
	DailySeries   map[string][]DailyBucket `json:"dailySeries"`
	TopViewers    []TopKEntry              `json:"topViewers"`
	TopLikers     []TopKEntry              `json:"topLikers"`
	TopCommenters []TopKEntry              `json:"topCommenters"`
}

// TopItem is one owned item ranked by view total
type TopItem struct {
	ItemID    string `json:"itemId"`
	Title     string `json:"title"`
	ViewCount int    `json:"viewCount"`
}

// ProfileAnalytics is the profile dashboard panel
type ProfileAnalytics struct {
	OwnerID              string         `json:"ownerId"`
	ProfileViews         int            `json:"profileViews"`
	UniqueViewers        int            `json:"uniqueViewers"`
	FollowerCount        int            `json:"followerCount"`
	FollowingCount       int            `json:"followingCount"`
	TotalsAcrossItems    map[string]int `json:"totalsAcrossItems"`
	TopPortfolioItems    []TopItem      `json:"topPortfolioItemsByViews"`
	RecentProfileViewers []TopKEntry    `json:"recentProfileViewers"`
}

// RangeResult is the date-range slice of a rollup
type RangeResult struct {
	Start         string                   `json:"start"`
	End           string                   `json:"end"`
	TotalsInRange map[string]int           `json:"totalsInRange"`
	SeriesInRange map[string][]DailyBucket `json:"seriesInRange"`
}

// =============================================================================
// Analytics Cache Types
// =============================================================================

type SummaryCacheEntry struct {
	Data       *AggregateSummary `json:"data"`
	ComputedAt time.Time         `json:"computedAt"`
	TTL        time.Duration     `json:"ttl"`
}

type RollupCacheEntry struct {
	Data       *OwnerRollup  `json:"data"`
	ComputedAt time.Time     `json:"computedAt"`
	TTL        time.Duration `json:"ttl"`
}

// AnalyticsCache holds the in-process derived-state caches
type AnalyticsCache struct {
	Summaries map[string]*SummaryCacheEntry // "entityType:entityId" -> entry
	Rollups   map[string]*RollupCacheEntry  // ownerId -> entry

	LastUpdated time.Time
	Mu          sync.RWMutex // Exported for access
}

// CacheStats reports cache sizing for monitoring
type CacheStats struct {
	Summaries int `json:"summaries"`
	Rollups   int `json:"rollups"`
}
