package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/makerfolio/makerfolio-go/models"
)

// SummaryRepository persists one Aggregate Summary document per
// (entity, entity-type) pair. The whole summary is written back as a single
// upsert; callers serialize same-entity writes above this layer.
type SummaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Get reads the summary for an entity. Absence is a valid zero-state, not an
// error; the second return is false when no summary exists yet.
func (r *SummaryRepository) Get(ctx context.Context, entityID, entityType string) (*models.AggregateSummary, bool, error) {
	const query = `
		SELECT total_counts, unique_actors, unique_counts, daily_series, last_updated
		FROM aggregate_summaries
		WHERE entity_id = ? AND entity_type = ?`

	var totalCounts, uniqueActors, uniqueCounts, dailySeries string
	var lastUpdated time.Time

	err := r.db.QueryRowContext(ctx, query, entityID, entityType).Scan(
		&totalCounts, &uniqueActors, &uniqueCounts, &dailySeries, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read aggregate summary: %w", err)
	}

	summary := models.NewAggregateSummary(entityID, entityType)
	summary.LastUpdated = lastUpdated

	if err := json.Unmarshal([]byte(totalCounts), &summary.TotalCounts); err != nil {
		return nil, false, fmt.Errorf("failed to decode total counts for %s: %w", entityID, err)
	}
	if err := json.Unmarshal([]byte(uniqueActors), &summary.UniqueActors); err != nil {
		return nil, false, fmt.Errorf("failed to decode unique actors for %s: %w", entityID, err)
	}
	if err := json.Unmarshal([]byte(uniqueCounts), &summary.UniqueCounts); err != nil {
		return nil, false, fmt.Errorf("failed to decode unique counts for %s: %w", entityID, err)
	}
	if err := json.Unmarshal([]byte(dailySeries), &summary.DailySeries); err != nil {
		return nil, false, fmt.Errorf("failed to decode daily series for %s: %w", entityID, err)
	}

	return summary, true, nil
}

// Put writes the whole summary document back in one statement
func (r *SummaryRepository) Put(ctx context.Context, summary *models.AggregateSummary) error {
	totalCounts, err := json.Marshal(summary.TotalCounts)
	if err != nil {
		return fmt.Errorf("failed to encode total counts: %w", err)
	}
	uniqueActors, err := json.Marshal(summary.UniqueActors)
	if err != nil {
		return fmt.Errorf("failed to encode unique actors: %w", err)
	}
	uniqueCounts, err := json.Marshal(summary.UniqueCounts)
	if err != nil {
		return fmt.Errorf("failed to encode unique counts: %w", err)
	}
	dailySeries, err := json.Marshal(summary.DailySeries)
	if err != nil {
		return fmt.Errorf("failed to encode daily series: %w", err)
	}

	const query = `
		INSERT INTO aggregate_summaries (entity_id, entity_type, total_counts, unique_actors, unique_counts, daily_series, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity_id, entity_type) DO UPDATE SET
			total_counts = excluded.total_counts,
			unique_actors = excluded.unique_actors,
			unique_counts = excluded.unique_counts,
			daily_series = excluded.daily_series,
			last_updated = excluded.last_updated`

	_, err = r.db.ExecContext(ctx, query,
		summary.EntityID,
		summary.EntityType,
		string(totalCounts),
		string(uniqueActors),
		string(uniqueCounts),
		string(dailySeries),
		summary.LastUpdated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write aggregate summary: %w", err)
	}
	return nil
}

// GetMany reads summaries for several entities of one type. A failing child
// is skipped and logged; the rest of the result is still returned.
func (r *SummaryRepository) GetMany(ctx context.Context, entityType string, entityIDs []string) map[string]*models.AggregateSummary {
	found := make(map[string]*models.AggregateSummary)
	for _, entityID := range entityIDs {
		summary, exists, err := r.Get(ctx, entityID, entityType)
		if err != nil {
			log.Printf("WARNING: skipping summary for %s/%s in merge: %v", entityType, entityID, err)
			continue
		}
		if exists {
			found[entityID] = summary
		}
	}
	return found
}

// SupportsRangeQuery probes whether the backing store can evaluate the
// SQL-side date-range query (json_each over the series documents). Called
// once at startup to select the range strategy.
func (r *SummaryRepository) SupportsRangeQuery(ctx context.Context) bool {
	const probe = `SELECT COUNT(*) FROM aggregate_summaries, json_each(aggregate_summaries.daily_series) LIMIT 1`
	var n int
	if err := r.db.QueryRowContext(ctx, probe).Scan(&n); err != nil {
		log.Printf("WARNING: server-side range query unavailable, using client-side fallback: %v", err)
		return false
	}
	return true
}

// QueryRange evaluates the date-range totals and series in SQL across the
// given entities. Dates are day keys; [start, end] is inclusive.
func (r *SummaryRepository) QueryRange(ctx context.Context, entityType string, entityIDs []string, start, end string) (map[string]int, map[string][]models.DailyBucket, error) {
	totals := make(map[string]int)
	series := make(map[string][]models.DailyBucket)
	if len(entityIDs) == 0 {
		return totals, series, nil
	}

	placeholders := strings.Repeat("?,", len(entityIDs))
	placeholders = placeholders[:len(placeholders)-1]

	// kind.key walks each event kind's bucket list; bucket.value is one
	// {date, count} object.
	query := fmt.Sprintf(`
		SELECT kind.key,
			json_extract(bucket.value, '$.date') AS day,
			SUM(json_extract(bucket.value, '$.count'))
		FROM aggregate_summaries,
			json_each(aggregate_summaries.daily_series) AS kind,
			json_each(kind.value) AS bucket
		WHERE entity_id IN (%s) AND entity_type = ?
			AND day >= ? AND day <= ?
		GROUP BY kind.key, day
		ORDER BY day`, placeholders)

	args := make([]any, 0, len(entityIDs)+3)
	for _, id := range entityIDs {
		args = append(args, id)
	}
	args = append(args, entityType, start, end)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to run range query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, day string
		var count int
		if err := rows.Scan(&kind, &day, &count); err != nil {
			return nil, nil, fmt.Errorf("failed to scan range row: %w", err)
		}
		totals[kind] += count
		series[kind] = append(series[kind], models.DailyBucket{Date: day, Count: count})
	}
	return totals, series, rows.Err()
}
