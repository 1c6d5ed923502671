package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ContentRepository reads the owned-content collaborator collection. The only
// write this subsystem ever performs there is the denormalized view counter.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// OwnedItem is one content item belonging to an owner
type OwnedItem struct {
	ID        string
	Title     string
	ViewCount int
}

// ItemsByOwner enumerates every content item owned by a profile
func (r *ContentRepository) ItemsByOwner(ctx context.Context, ownerID string) ([]OwnedItem, error) {
	const query = `SELECT id, title, view_count FROM content_items WHERE owner_id = ?`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate items for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var items []OwnedItem
	for rows.Next() {
		var item OwnedItem
		if err := rows.Scan(&item.ID, &item.Title, &item.ViewCount); err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// IncrementViewCount bumps the entity's primary denormalized counter.
// Display data only; the aggregate summary is the derived source read back
// by queries.
func (r *ContentRepository) IncrementViewCount(ctx context.Context, itemID string) error {
	const query = `UPDATE content_items SET view_count = view_count + 1 WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to increment view count for %s: %w", itemID, err)
	}
	return nil
}
