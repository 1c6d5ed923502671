// Package events provides engagement event recording for content items and
// profiles.
package events

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/makerfolio/makerfolio-go/analytics"
	"github.com/makerfolio/makerfolio-go/config"
	"github.com/makerfolio/makerfolio-go/models"
	"github.com/makerfolio/makerfolio-go/store"
	"github.com/makerfolio/makerfolio-go/utils"
)

// Recorder accepts raw engagement events, applies the view-deduplication
// policy, persists the immutable event, and triggers the aggregate update.
type Recorder struct {
	events     *store.EventRepository
	content    *store.ContentRepository
	aggregator *analytics.Aggregator
}

// NewRecorder creates a new event recorder
func NewRecorder(db *store.Database, aggregator *analytics.Aggregator) *Recorder {
	return &Recorder{
		events:     store.NewEventRepository(db.Conn),
		content:    store.NewContentRepository(db.Conn),
		aggregator: aggregator,
	}
}

// RecordView records one view event. A repeat view by the same actor on the
// same entity inside the dedup window is folded into the existing event and
// returns its ID; anonymous views are never deduplicated.
func (r *Recorder) RecordView(ctx context.Context, entityID, entityType string, actor *models.ActorRef, deviceInfo *string) (string, error) {
	if !models.IsValidEntityType(entityType) {
		return "", fmt.Errorf("unsupported entity type: %s", entityType)
	}

	now := time.Now().UTC()

	if actor != nil {
		since := now.Add(-config.ViewDedupWindow)
		existingID, found, err := r.events.FindRecentView(ctx, actor.ID, entityID, entityType, since)
		if err != nil {
			// Dedup lookup failure must not lose the view; count it
			log.Printf("WARNING: view dedup lookup failed for %s on %s, recording anyway: %v", actor.ID, entityID, err)
		} else if found {
			return existingID, nil
		}
	}

	event := r.buildEvent(entityID, entityType, models.KindView, actor, nil, deviceInfo, now)
	if err := r.events.Insert(ctx, event); err != nil {
		return "", err
	}

	// The raw event is durable from here on. Derived updates degrade to a
	// log line; there is no replay path yet (the event log would allow one).
	if entityType == models.EntityContentItem {
		if err := r.content.IncrementViewCount(ctx, entityID); err != nil {
			log.Printf("ERROR: view counter bump failed for %s: %v", entityID, err)
		}
	}

	r.applyAggregate(ctx, event)
	return event.ID, nil
}

// RecordInteraction records a like, comment, or follow. View events are
// routed through the dedup path.
func (r *Recorder) RecordInteraction(ctx context.Context, entityID, entityType, kind string, actor *models.ActorRef, content, deviceInfo *string) (string, error) {
	if kind == models.KindView {
		return r.RecordView(ctx, entityID, entityType, actor, deviceInfo)
	}
	if !models.IsValidKind(kind) {
		return "", fmt.Errorf("unsupported event kind: %s", kind)
	}
	if !models.IsValidEntityType(entityType) {
		return "", fmt.Errorf("unsupported entity type: %s", entityType)
	}
	if actor == nil {
		return "", fmt.Errorf("%s events require an actor", kind)
	}

	event := r.buildEvent(entityID, entityType, kind, actor, content, deviceInfo, time.Now().UTC())
	if err := r.events.Insert(ctx, event); err != nil {
		return "", err
	}

	// The entity's own like/comment counters belong to content CRUD; the
	// aggregate update here is independent bookkeeping.
	r.applyAggregate(ctx, event)
	return event.ID, nil
}

func (r *Recorder) buildEvent(entityID, entityType, kind string, actor *models.ActorRef, content, deviceInfo *string, at time.Time) *models.EngagementEvent {
	event := &models.EngagementEvent{
		ID:         utils.GenerateULID(),
		EntityID:   entityID,
		EntityType: entityType,
		Kind:       kind,
		Content:    content,
		DeviceInfo: deviceInfo,
		CreatedAt:  at,
	}
	if actor != nil {
		actorID := actor.ID
		event.ActorID = &actorID
		event.ActorInfo = actor.Info
	}
	return event
}

func (r *Recorder) applyAggregate(ctx context.Context, event *models.EngagementEvent) {
	err := r.aggregator.ApplyUpdate(ctx, event.EntityID, event.EntityType, event.Kind, event.ActorID, event.CreatedAt)
	if err != nil {
		log.Printf("ERROR: aggregate update failed for event %s (%s on %s/%s): %v",
			event.ID, event.Kind, event.EntityType, event.EntityID, err)
	}
}
