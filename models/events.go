// Package models defines data structures for engagement tracking and analytics.
package models

import "time"

// Event kinds tracked by the engine
const (
	KindView    = "view"
	KindLike    = "like"
	KindComment = "comment"
	KindFollow  = "follow"
)

// Entity types that accumulate engagement
const (
	EntityContentItem = "content-item"
	EntityProfile     = "profile"
)

// AllKinds lists every tracked event kind in canonical order
var AllKinds = []string{KindView, KindLike, KindComment, KindFollow}

// IsValidKind reports whether kind is one of the tracked event kinds
func IsValidKind(kind string) bool {
	for _, k := range AllKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IsValidEntityType reports whether entityType is tracked
func IsValidEntityType(entityType string) bool {
	return entityType == EntityContentItem || entityType == EntityProfile
}

// ActorInfo is the display snapshot denormalized into an event at write time.
// It is never re-derived from live profile records when reading history.
type ActorInfo struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// ActorRef identifies the acting user plus the snapshot captured by the caller
type ActorRef struct {
	ID   string    `json:"id"`
	Info ActorInfo `json:"info"`
}

// EngagementEvent is an immutable raw event. Rows are append-only; nothing in
// this subsystem updates or deletes them once written.
type EngagementEvent struct {
	ID         string    `json:"id"`
	ActorID    *string   `json:"actorId"` // nil for anonymous views
	ActorInfo  ActorInfo `json:"actorInfo"`
	EntityID   string    `json:"entityId"`
	EntityType string    `json:"entityType"`
	Kind       string    `json:"eventKind"`
	Content    *string   `json:"content,omitempty"`
	DeviceInfo *string   `json:"deviceInfo,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
}

// =============================================================================
// Ingestion Request Types
// =============================================================================

type ViewRequest struct {
	EntityID   string    `json:"entityId" binding:"required"`
	EntityType string    `json:"entityType" binding:"required"`
	Actor      *ActorRef `json:"actor"`
	DeviceInfo *string   `json:"deviceInfo"`
}

type InteractionRequest struct {
	EntityID   string    `json:"entityId" binding:"required"`
	EntityType string    `json:"entityType" binding:"required"`
	Kind       string    `json:"kind" binding:"required"`
	Actor      *ActorRef `json:"actor" binding:"required"`
	Content    *string   `json:"content"`
	DeviceInfo *string   `json:"deviceInfo"`
}

// =============================================================================
// External Collaborator Types (read-only lookups)
// =============================================================================

// Identity is the live profile document consumed to resolve display info
type Identity struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	AvatarURL      string `json:"avatarUrl"`
	FollowerCount  int    `json:"followerCount"`
	FollowingCount int    `json:"followingCount"`
}

// ContentItem is the owned-content document; this subsystem reads it to
// enumerate an owner's items and bumps only its denormalized view counter
type ContentItem struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Title     string `json:"title"`
	ViewCount int    `json:"viewCount"`
}
