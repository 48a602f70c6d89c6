package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

// ProfileRepository reads user profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID returns the profile for a user or sql.ErrNoRows.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	const query = `SELECT user_id, full_name, school_name, role, created_at FROM profiles WHERE user_id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// FullNames maps user ids to full names. Ids without a profile are absent.
func (r *ProfileRepository) FullNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}
	const query = `SELECT user_id, full_name FROM profiles WHERE user_id = ANY($1)`
	var rows []struct {
		UserID   string `db:"user_id"`
		FullName string `db:"full_name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("list profile names: %w", err)
	}
	for _, row := range rows {
		names[row.UserID] = row.FullName
	}
	return names, nil
}
