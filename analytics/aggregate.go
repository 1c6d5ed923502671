// Package analytics maintains aggregate summaries and computes dashboard
// rollups, rankings, and date-range slices.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/makerfolio/makerfolio-go/cache"
	"github.com/makerfolio/makerfolio-go/models"
	"github.com/makerfolio/makerfolio-go/store"
	"github.com/makerfolio/makerfolio-go/utils"
)

// Aggregator applies incremental updates to aggregate summaries. All writes
// for one entity are serialized through a keyed lock, so two interactions on
// the same item queue instead of clobbering each other's read-modify-write.
type Aggregator struct {
	summaries    *store.SummaryRepository
	cacheManager *cache.Manager
	locks        *cache.EntityLock
}

// NewAggregator creates a new aggregator
func NewAggregator(summaries *store.SummaryRepository, cacheManager *cache.Manager) *Aggregator {
	return &Aggregator{
		summaries:    summaries,
		cacheManager: cacheManager,
		locks:        cache.NewEntityLock(),
	}
}

// ApplyUpdate folds one event into the entity's summary: total count,
// unique-actor set, and the daily bucket for the event's calendar day. The
// whole summary is persisted back as one write, then pushed through the
// summary cache.
func (a *Aggregator) ApplyUpdate(ctx context.Context, entityID, entityType, kind string, actorID *string, at time.Time) error {
	lockKey := fmt.Sprintf("%s:%s", entityType, entityID)
	a.locks.Lock(lockKey)
	defer a.locks.Unlock(lockKey)

	// Read from the store, not the cache: readers hold cached pointers, and
	// mutating a shared summary in place would race with them.
	summary, exists, err := a.summaries.Get(ctx, entityID, entityType)
	if err != nil {
		return fmt.Errorf("failed to load summary for update: %w", err)
	}
	if !exists {
		summary = models.NewAggregateSummary(entityID, entityType)
	}

	summary.TotalCounts[kind]++

	if actorID != nil {
		set := summary.UniqueActors[kind]
		if set == nil {
			set = make(map[string]bool)
			summary.UniqueActors[kind] = set
		}
		if !set[*actorID] {
			set[*actorID] = true
			summary.UniqueCounts[kind]++
		}
	}

	dayKey := utils.FormatDayKey(at)
	buckets := summary.DailySeries[kind]
	bumped := false
	for i := range buckets {
		if buckets[i].Date == dayKey {
			buckets[i].Count++
			bumped = true
			break
		}
	}
	if !bumped {
		summary.DailySeries[kind] = append(buckets, models.DailyBucket{Date: dayKey, Count: 1})
	}

	summary.LastUpdated = time.Now().UTC()

	if err := a.summaries.Put(ctx, summary); err != nil {
		return fmt.Errorf("failed to persist summary: %w", err)
	}

	a.cacheManager.SetSummary(summary)
	return nil
}
