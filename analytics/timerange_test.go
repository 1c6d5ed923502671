package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/makerfolio/makerfolio-go/models"
)

func TestClipSeriesInclusiveBounds(t *testing.T) {
	series := map[string][]models.DailyBucket{
		"view": {
			{Date: "2026-08-30", Count: 1},
			{Date: "2026-08-31", Count: 2},
			{Date: "2026-09-01", Count: 4},
			{Date: "2026-09-02", Count: 8},
		},
	}

	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	totals, clipped := ClipSeries(series, start, end)

	assert.Equal(t, 6, totals["view"])
	assert.Equal(t, []models.DailyBucket{
		{Date: "2026-08-31", Count: 2},
		{Date: "2026-09-01", Count: 4},
	}, clipped["view"])
}

func TestClipSeriesEmptyWindow(t *testing.T) {
	series := map[string][]models.DailyBucket{
		"like": {{Date: "2026-09-01", Count: 3}},
	}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)

	totals, clipped := ClipSeries(series, start, end)

	assert.Zero(t, totals["like"])
	assert.Empty(t, clipped["like"])
	// The kind stays present so dashboards render a zero series, not a gap
	assert.Contains(t, clipped, "like")
}

func TestClipSeriesMultipleKinds(t *testing.T) {
	series := map[string][]models.DailyBucket{
		"view": {{Date: "2026-09-01", Count: 5}},
		"like": {{Date: "2026-09-01", Count: 1}, {Date: "2026-09-03", Count: 1}},
	}

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	totals, clipped := ClipSeries(series, start, end)

	assert.Equal(t, 5, totals["view"])
	assert.Equal(t, 1, totals["like"])
	assert.Len(t, clipped["like"], 1)
}

func TestMergeSortedBuckets(t *testing.T) {
	a := []models.DailyBucket{
		{Date: "2026-09-01", Count: 2},
		{Date: "2026-09-03", Count: 1},
	}
	b := []models.DailyBucket{
		{Date: "2026-08-31", Count: 4},
		{Date: "2026-09-01", Count: 3},
		{Date: "2026-09-04", Count: 5},
	}

	merged := mergeSortedBuckets(a, b)

	assert.Equal(t, []models.DailyBucket{
		{Date: "2026-08-31", Count: 4},
		{Date: "2026-09-01", Count: 5},
		{Date: "2026-09-03", Count: 1},
		{Date: "2026-09-04", Count: 5},
	}, merged)
}

func TestMergeSortedBucketsOneSideEmpty(t *testing.T) {
	a := []models.DailyBucket{{Date: "2026-09-01", Count: 2}}

	assert.Equal(t, a, mergeSortedBuckets(a, nil))
	assert.Equal(t, a, mergeSortedBuckets(nil, a))
	assert.Empty(t, mergeSortedBuckets(nil, nil))
}
