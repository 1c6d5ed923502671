package store

import (
	"database/sql"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		actor_id TEXT,
		actor_name TEXT NOT NULL DEFAULT '',
		actor_avatar TEXT NOT NULL DEFAULT '',
		entity_id TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		event_kind TEXT NOT NULL,
		content TEXT,
		device_info TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS aggregate_summaries (
		entity_id TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		total_counts TEXT NOT NULL DEFAULT '{}',
		unique_actors TEXT NOT NULL DEFAULT '{}',
		unique_counts TEXT NOT NULL DEFAULT '{}',
		daily_series TEXT NOT NULL DEFAULT '{}',
		last_updated TIMESTAMP NOT NULL,
		PRIMARY KEY (entity_id, entity_type)
	)`,
	`CREATE TABLE IF NOT EXISTS content_items (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		view_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		follower_count INTEGER NOT NULL DEFAULT 0,
		following_count INTEGER NOT NULL DEFAULT 0
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_events_entity ON events (entity_id, entity_type, event_kind)`,
	`CREATE INDEX IF NOT EXISTS idx_events_actor_entity ON events (actor_id, entity_id, entity_type, event_kind, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_content_items_owner ON content_items (owner_id)`,
}

// CreateSchema executes all necessary queries to build the analytics tables
// and indexes. All statements are idempotent.
func CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
