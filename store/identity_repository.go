package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/makerfolio/makerfolio-go/models"
)

// IdentityRepository reads the external profile collection to resolve current
// display info for an actor. Read-only by contract.
type IdentityRepository struct {
	db *sql.DB
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Get resolves one identity. Returns false when the account does not exist.
func (r *IdentityRepository) Get(ctx context.Context, actorID string) (*models.Identity, bool, error) {
	const query = `SELECT id, display_name, avatar_url, follower_count, following_count FROM profiles WHERE id = ?`

	var identity models.Identity
	err := r.db.QueryRowContext(ctx, query, actorID).Scan(
		&identity.ID,
		&identity.DisplayName,
		&identity.AvatarURL,
		&identity.FollowerCount,
		&identity.FollowingCount,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve identity %s: %w", actorID, err)
	}
	return &identity, true, nil
}
