package store

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerfolio/makerfolio-go/models"
)

var summaryColumns = []string{"total_counts", "unique_actors", "unique_counts", "daily_series", "last_updated"}

func newSummaryRepo(t *testing.T) (*SummaryRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSummaryRepository(db), mock
}

func TestSummaryGetDecodesDocument(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	lastUpdated := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_counts, unique_actors, unique_counts, daily_series, last_updated`)).
		WithArgs("item-1", models.EntityContentItem).
		WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(
			`{"view":7,"like":2}`,
			`{"view":{"amy":true,"ben":true}}`,
			`{"view":2}`,
			`{"view":[{"date":"2026-09-01","count":7}]}`,
			lastUpdated,
		))

	summary, exists, err := repo.Get(context.Background(), "item-1", models.EntityContentItem)
	require.NoError(t, err)
	require.True(t, exists)

	assert.Equal(t, 7, summary.TotalCounts["view"])
	assert.Equal(t, 2, summary.TotalCounts["like"])
	assert.True(t, summary.UniqueActors["view"]["amy"])
	assert.Equal(t, 2, summary.UniqueCounts["view"])
	require.Len(t, summary.DailySeries["view"], 1)
	assert.Equal(t, models.DailyBucket{Date: "2026-09-01", Count: 7}, summary.DailySeries["view"][0])
	assert.Equal(t, lastUpdated, summary.LastUpdated)
}

func TestSummaryGetAbsenceIsZeroState(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_counts`)).
		WillReturnRows(sqlmock.NewRows(summaryColumns))

	summary, exists, err := repo.Get(context.Background(), "item-404", models.EntityContentItem)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, summary)
}

func TestSummaryGetCorruptDocument(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_counts`)).
		WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(
			`not json`, `{}`, `{}`, `{}`, time.Now(),
		))

	_, _, err := repo.Get(context.Background(), "item-1", models.EntityContentItem)
	assert.Error(t, err)
}

func TestSummaryPutUpserts(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	summary := models.NewAggregateSummary("item-1", models.EntityContentItem)
	summary.TotalCounts["view"] = 3
	summary.UniqueActors["view"] = map[string]bool{"amy": true}
	summary.UniqueCounts["view"] = 1
	summary.DailySeries["view"] = []models.DailyBucket{{Date: "2026-09-01", Count: 3}}
	summary.LastUpdated = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO aggregate_summaries`)).
		WithArgs(
			"item-1",
			models.EntityContentItem,
			`{"view":3}`,
			`{"view":{"amy":true}}`,
			`{"view":1}`,
			`{"view":[{"date":"2026-09-01","count":3}]}`,
			summary.LastUpdated,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Put(context.Background(), summary))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetManySkipsFailingChildren(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_counts`)).
		WithArgs("item-1", models.EntityContentItem).
		WillReturnError(fmt.Errorf("disk gremlin"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT total_counts`)).
		WithArgs("item-2", models.EntityContentItem).
		WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(
			`{"view":1}`, `{}`, `{}`, `{}`, time.Now(),
		))

	found := repo.GetMany(context.Background(), models.EntityContentItem, []string{"item-1", "item-2"})

	assert.NotContains(t, found, "item-1")
	require.Contains(t, found, "item-2")
	assert.Equal(t, 1, found["item-2"].TotalCounts["view"])
}

func TestSupportsRangeQuery(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`json_each`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	assert.True(t, repo.SupportsRangeQuery(context.Background()))

	mock.ExpectQuery(regexp.QuoteMeta(`json_each`)).
		WillReturnError(fmt.Errorf("no such function: json_each"))
	assert.False(t, repo.SupportsRangeQuery(context.Background()))
}

func TestQueryRange(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM aggregate_summaries`)).
		WithArgs("item-1", "item-2", models.EntityContentItem, "2026-08-30", "2026-09-01").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "day", "count"}).
			AddRow("view", "2026-08-30", 2).
			AddRow("view", "2026-09-01", 4).
			AddRow("like", "2026-09-01", 1))

	totals, series, err := repo.QueryRange(context.Background(), models.EntityContentItem,
		[]string{"item-1", "item-2"}, "2026-08-30", "2026-09-01")
	require.NoError(t, err)

	assert.Equal(t, 6, totals["view"])
	assert.Equal(t, 1, totals["like"])
	assert.Equal(t, []models.DailyBucket{
		{Date: "2026-08-30", Count: 2},
		{Date: "2026-09-01", Count: 4},
	}, series["view"])
}

func TestQueryRangeEmptyScope(t *testing.T) {
	repo, mock := newSummaryRepo(t)

	totals, series, err := repo.QueryRange(context.Background(), models.EntityContentItem, nil, "2026-08-30", "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, totals)
	assert.Empty(t, series)
	assert.NoError(t, mock.ExpectationsWereMet())
}
