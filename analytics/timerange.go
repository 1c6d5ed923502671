package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/makerfolio/makerfolio-go/models"
	"github.com/makerfolio/makerfolio-go/utils"
)

// RangeQueryStrategy answers date-range queries over an owner's rollup. The
// concrete strategy is selected once at startup by capability detection, not
// per call.
type RangeQueryStrategy interface {
	QueryRange(ctx context.Context, ownerID string, start, end time.Time) (*models.RangeResult, error)
}

// SelectRangeStrategy probes the store and installs the SQL-side strategy
// when the backing database can walk the series documents; otherwise the
// client-side clip over fetched series is installed.
func SelectRangeStrategy(ctx context.Context, service *Service) RangeQueryStrategy {
	if service.summaries.SupportsRangeQuery(ctx) {
		log.Printf("Range queries: server-side strategy selected")
		return &sqlRangeStrategy{service: service}
	}
	log.Printf("Range queries: client-side strategy selected")
	return &clientRangeStrategy{service: service}
}

// ClipSeries filters each kind's buckets to [start, end] inclusive and sums
// the surviving counts. Output series are date-sorted because input series
// are only clipped, never reordered, and rollup series arrive sorted.
func ClipSeries(series map[string][]models.DailyBucket, start, end time.Time) (map[string]int, map[string][]models.DailyBucket) {
	totals := make(map[string]int)
	clipped := make(map[string][]models.DailyBucket)

	for kind, buckets := range series {
		kept := make([]models.DailyBucket, 0, len(buckets))
		for _, bucket := range buckets {
			if !utils.DayKeyInRange(bucket.Date, start, end) {
				continue
			}
			kept = append(kept, bucket)
			totals[kind] += bucket.Count
		}
		clipped[kind] = kept
	}

	return totals, clipped
}

// sqlRangeStrategy pushes the clip-and-sum down into the store
type sqlRangeStrategy struct {
	service *Service
}

func (s *sqlRangeStrategy) QueryRange(ctx context.Context, ownerID string, start, end time.Time) (*models.RangeResult, error) {
	startKey := utils.FormatDayKey(start)
	endKey := utils.FormatDayKey(end)

	items, err := s.service.content.ItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate items for range query: %w", err)
	}
	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	totals, series, err := s.service.summaries.QueryRange(ctx, models.EntityContentItem, itemIDs, startKey, endKey)
	if err != nil {
		return nil, err
	}

	profileTotals, profileSeries, err := s.service.summaries.QueryRange(ctx, models.EntityProfile, []string{ownerID}, startKey, endKey)
	if err != nil {
		return nil, err
	}

	for kind, count := range profileTotals {
		totals[kind] += count
	}
	for kind, buckets := range profileSeries {
		series[kind] = mergeSortedBuckets(series[kind], buckets)
	}

	return &models.RangeResult{
		Start:         startKey,
		End:           endKey,
		TotalsInRange: totals,
		SeriesInRange: series,
	}, nil
}

// clientRangeStrategy recomputes the filter over the already-fetched rollup
// series
type clientRangeStrategy struct {
	service *Service
}

func (s *clientRangeStrategy) QueryRange(ctx context.Context, ownerID string, start, end time.Time) (*models.RangeResult, error) {
	rollup, err := s.service.ComputeOwnerRollup(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totals, clipped := ClipSeries(rollup.DailySeries, start, end)

	return &models.RangeResult{
		Start:         utils.FormatDayKey(start),
		End:           utils.FormatDayKey(end),
		TotalsInRange: totals,
		SeriesInRange: clipped,
	}, nil
}

// mergeSortedBuckets merges two date-sorted bucket lists, summing counts on
// matching dates
func mergeSortedBuckets(a, b []models.DailyBucket) []models.DailyBucket {
	merged := make([]models.DailyBucket, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Date < b[j].Date:
			merged = append(merged, a[i])
			i++
		case a[i].Date > b[j].Date:
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, models.DailyBucket{Date: a[i].Date, Count: a[i].Count + b[j].Count})
			i++
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}
