package analytics

import (
	"context"
	"log"
	"sort"

	"github.com/makerfolio/makerfolio-go/cache"
	"github.com/makerfolio/makerfolio-go/config"
	"github.com/makerfolio/makerfolio-go/models"
	"github.com/makerfolio/makerfolio-go/store"
)

// Service answers dashboard queries by merging per-entity summaries on read.
// All computation here is side-effect free; results are cached by TTL only.
type Service struct {
	summaries    *store.SummaryRepository
	events       *store.EventRepository
	content      *store.ContentRepository
	identities   *store.IdentityRepository
	cacheManager *cache.Manager
	ranker       *Ranker
}

// NewService creates the analytics query service
func NewService(db *store.Database, cacheManager *cache.Manager) *Service {
	identities := store.NewIdentityRepository(db.Conn)
	return &Service{
		summaries:    store.NewSummaryRepository(db.Conn),
		events:       store.NewEventRepository(db.Conn),
		content:      store.NewContentRepository(db.Conn),
		identities:   identities,
		cacheManager: cacheManager,
		ranker:       NewRanker(identities),
	}
}

// getSummary is the cache-first summary read used by every query path.
// Absence is a valid zero-state.
func (s *Service) getSummary(ctx context.Context, entityID, entityType string) *models.AggregateSummary {
	if cached, found := s.cacheManager.GetSummary(entityID, entityType); found {
		return cached
	}

	summary, exists, err := s.summaries.Get(ctx, entityID, entityType)
	if err != nil {
		log.Printf("ERROR: summary read failed for %s/%s, serving zero-state: %v", entityType, entityID, err)
		return models.NewAggregateSummary(entityID, entityType)
	}
	if !exists {
		return models.NewAggregateSummary(entityID, entityType)
	}

	s.cacheManager.SetSummary(summary)
	return summary
}

// MergeSummaries merges child summaries into owner-level totals, unique
// totals, and daily series.
//
// Unique totals are the size of the true set union across children. Summing
// each child's pre-computed unique count would double-count an actor who
// interacted with two of the owner's items.
func MergeSummaries(summaries []*models.AggregateSummary) (map[string]int, map[string]int, map[string][]models.DailyBucket) {
	totals := make(map[string]int)
	unionsByKind := make(map[string]map[string]bool)
	countsByDay := make(map[string]map[string]int)

	for _, summary := range summaries {
		if summary == nil {
			continue
		}

		for kind, count := range summary.TotalCounts {
			totals[kind] += count
		}

		for kind, actors := range summary.UniqueActors {
			union := unionsByKind[kind]
			if union == nil {
				union = make(map[string]bool)
				unionsByKind[kind] = union
			}
			for actorID := range actors {
				union[actorID] = true
			}
		}

		for kind, buckets := range summary.DailySeries {
			days := countsByDay[kind]
			if days == nil {
				days = make(map[string]int)
				countsByDay[kind] = days
			}
			for _, bucket := range buckets {
				days[bucket.Date] += bucket.Count
			}
		}
	}

	uniqueTotals := make(map[string]int)
	for kind, union := range unionsByKind {
		uniqueTotals[kind] = len(union)
	}

	series := make(map[string][]models.DailyBucket)
	for kind, days := range countsByDay {
		buckets := make([]models.DailyBucket, 0, len(days))
		for date, count := range days {
			buckets = append(buckets, models.DailyBucket{Date: date, Count: count})
		}
		sort.Slice(buckets, func(i, j int) bool {
			return buckets[i].Date < buckets[j].Date
		})
		series[kind] = buckets
	}

	return totals, uniqueTotals, series
}

// ComputeOwnerRollup merges every owned item's summary plus the profile's
// own summary into one owner-level view. Recomputed per query unless a fresh
// cached rollup exists; never persisted.
func (s *Service) ComputeOwnerRollup(ctx context.Context, ownerID string) (*models.OwnerRollup, error) {
	if cached, found := s.cacheManager.GetRollup(ownerID); found {
		return cached, nil
	}

	items, err := s.content.ItemsByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("ERROR: owner item enumeration failed for %s, rolling up profile only: %v", ownerID, err)
		items = nil
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	children := make([]*models.AggregateSummary, 0, len(itemIDs)+1)
	itemSummaries := s.summaries.GetMany(ctx, models.EntityContentItem, itemIDs)
	for _, itemID := range itemIDs {
		if summary, found := itemSummaries[itemID]; found {
			children = append(children, summary)
		}
	}
	children = append(children, s.getSummary(ctx, ownerID, models.EntityProfile))

	totals, uniqueTotals, series := MergeSummaries(children)

	rollup := &models.OwnerRollup{
		OwnerID:       ownerID,
		Totals:        totals,
		UniqueTotals:  uniqueTotals,
		DailySeries:   series,
		TopViewers:    s.rankActors(ctx, itemIDs, models.EntityContentItem, models.KindView, config.OwnerTopKLimit),
		TopLikers:     s.rankActors(ctx, itemIDs, models.EntityContentItem, models.KindLike, config.OwnerTopKLimit),
		TopCommenters: s.rankActors(ctx, itemIDs, models.EntityContentItem, models.KindComment, config.OwnerTopKLimit),
	}

	s.cacheManager.SetRollup(ownerID, rollup)
	return rollup, nil
}

// rankActors fetches per-actor activity for the scope and ranks it. Failures
// degrade to an empty leaderboard, never an error for the dashboard.
func (s *Service) rankActors(ctx context.Context, entityIDs []string, entityType, kind string, k int) []models.TopKEntry {
	activity, err := s.events.ActorCounts(ctx, entityIDs, entityType, kind)
	if err != nil {
		log.Printf("ERROR: actor count query failed for kind %s: %v", kind, err)
		return []models.TopKEntry{}
	}
	return s.ranker.Rank(ctx, activity, k)
}

// ComputeItemAnalytics builds the per-item dashboard panel
func (s *Service) ComputeItemAnalytics(ctx context.Context, entityID string) *models.ItemAnalytics {
	summary := s.getSummary(ctx, entityID, models.EntityContentItem)

	scope := []string{entityID}
	return &models.ItemAnalytics{
		EntityID:      entityID,
		Totals:        summary.TotalCounts,
		DailySeries:   sortedSeries(summary.DailySeries),
		TopViewers:    s.rankActors(ctx, scope, models.EntityContentItem, models.KindView, config.ItemTopKLimit),
		TopLikers:     s.rankActors(ctx, scope, models.EntityContentItem, models.KindLike, config.ItemTopKLimit),
		TopCommenters: s.rankActors(ctx, scope, models.EntityContentItem, models.KindComment, config.ItemTopKLimit),
	}
}

// ComputeProfileAnalytics builds the profile dashboard panel
func (s *Service) ComputeProfileAnalytics(ctx context.Context, ownerID string) *models.ProfileAnalytics {
	result := &models.ProfileAnalytics{
		OwnerID:              ownerID,
		TotalsAcrossItems:    make(map[string]int),
		TopPortfolioItems:    []models.TopItem{},
		RecentProfileViewers: []models.TopKEntry{},
	}

	if identity, found, err := s.identities.Get(ctx, ownerID); err != nil {
		log.Printf("ERROR: identity lookup failed for %s: %v", ownerID, err)
	} else if found {
		result.FollowerCount = identity.FollowerCount
		result.FollowingCount = identity.FollowingCount
	}

	profileSummary := s.getSummary(ctx, ownerID, models.EntityProfile)
	result.ProfileViews = profileSummary.TotalCounts[models.KindView]
	result.UniqueViewers = profileSummary.UniqueCounts[models.KindView]

	items, err := s.content.ItemsByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("ERROR: owner item enumeration failed for %s: %v", ownerID, err)
		items = nil
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	itemSummaries := s.summaries.GetMany(ctx, models.EntityContentItem, itemIDs)
	children := make([]*models.AggregateSummary, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		if summary, found := itemSummaries[itemID]; found {
			children = append(children, summary)
		}
	}
	totals, _, _ := MergeSummaries(children)
	result.TotalsAcrossItems = totals

	for _, item := range items {
		viewTotal := 0
		if summary, found := itemSummaries[item.ID]; found {
			viewTotal = summary.TotalCounts[models.KindView]
		}
		result.TopPortfolioItems = append(result.TopPortfolioItems, models.TopItem{
			ItemID:    item.ID,
			Title:     item.Title,
			ViewCount: viewTotal,
		})
	}
	sort.SliceStable(result.TopPortfolioItems, func(i, j int) bool {
		return result.TopPortfolioItems[i].ViewCount > result.TopPortfolioItems[j].ViewCount
	})
	if len(result.TopPortfolioItems) > config.TopItemsLimit {
		result.TopPortfolioItems = result.TopPortfolioItems[:config.TopItemsLimit]
	}

	recent, err := s.events.RecentActors(ctx, ownerID, models.EntityProfile, models.KindView, config.RecentViewersLimit)
	if err != nil {
		log.Printf("ERROR: recent viewer query failed for %s: %v", ownerID, err)
	} else {
		result.RecentProfileViewers = s.ranker.enrich(ctx, recent, config.RecentViewersLimit)
	}

	return result
}

// sortedSeries returns a copy of the series with each kind's buckets sorted
// by date. Buckets are appended in arrival order on write; the reader sorts.
func sortedSeries(series map[string][]models.DailyBucket) map[string][]models.DailyBucket {
	out := make(map[string][]models.DailyBucket, len(series))
	for kind, buckets := range series {
		sorted := make([]models.DailyBucket, len(buckets))
		copy(sorted, buckets)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Date < sorted[j].Date
		})
		out[kind] = sorted
	}
	return out
}
