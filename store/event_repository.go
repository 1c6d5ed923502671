package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/makerfolio/makerfolio-go/models"
)

// EventRepository handles persistence of raw engagement events.
// Rows are append-only; nothing here updates or deletes an event.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert writes one immutable event row
func (r *EventRepository) Insert(ctx context.Context, event *models.EngagementEvent) error {
	const query = `
		INSERT INTO events (id, actor_id, actor_name, actor_avatar, entity_id, entity_type, event_kind, content, device_info, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.ActorID,
		event.ActorInfo.DisplayName,
		event.ActorInfo.AvatarURL,
		event.EntityID,
		event.EntityType,
		event.Kind,
		event.Content,
		event.DeviceInfo,
		event.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store engagement event: %w", err)
	}
	return nil
}

// FindRecentView looks up the newest view event by the actor on the entity
// since the given cutoff. Returns the existing event ID when found.
func (r *EventRepository) FindRecentView(ctx context.Context, actorID, entityID, entityType string, since time.Time) (string, bool, error) {
	const query = `
		SELECT id FROM events
		WHERE actor_id = ? AND entity_id = ? AND entity_type = ? AND event_kind = ? AND created_at > ?
		ORDER BY created_at DESC
		LIMIT 1`

	var eventID string
	err := r.db.QueryRowContext(ctx, query, actorID, entityID, entityType, models.KindView, since.UTC()).Scan(&eventID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query recent views: %w", err)
	}
	return eventID, true, nil
}

// ActorActivity is one actor's interaction count and most recent timestamp
// within a query scope
type ActorActivity struct {
	ActorID  string
	Count    int
	LastSeen time.Time
}

// ActorCounts groups events of one kind across the given entities by actor.
// Anonymous events (NULL actor) are excluded; they never rank.
func (r *EventRepository) ActorCounts(ctx context.Context, entityIDs []string, entityType, kind string) ([]ActorActivity, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(entityIDs))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`
		SELECT actor_id, COUNT(*), MAX(created_at) FROM events
		WHERE entity_id IN (%s) AND entity_type = ? AND event_kind = ? AND actor_id IS NOT NULL
		GROUP BY actor_id`, placeholders)

	args := make([]any, 0, len(entityIDs)+2)
	for _, id := range entityIDs {
		args = append(args, id)
	}
	args = append(args, entityType, kind)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query actor counts: %w", err)
	}
	defer rows.Close()

	var activity []ActorActivity
	for rows.Next() {
		var a ActorActivity
		if err := rows.Scan(&a.ActorID, &a.Count, &a.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan actor count row: %w", err)
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}

// RecentActors returns the most recent distinct actors for one kind of event
// on one entity, newest first
func (r *EventRepository) RecentActors(ctx context.Context, entityID, entityType, kind string, limit int) ([]ActorActivity, error) {
	const query = `
		SELECT actor_id, COUNT(*), MAX(created_at) AS last_seen FROM events
		WHERE entity_id = ? AND entity_type = ? AND event_kind = ? AND actor_id IS NOT NULL
		GROUP BY actor_id
		ORDER BY last_seen DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, entityID, entityType, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent actors: %w", err)
	}
	defer rows.Close()

	var activity []ActorActivity
	for rows.Next() {
		var a ActorActivity
		if err := rows.Scan(&a.ActorID, &a.Count, &a.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan recent actor row: %w", err)
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
