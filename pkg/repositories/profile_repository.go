package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cyberpath-academy/learning-engine/pkg/database"
	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// ProfileRepository provides data access for user profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

type profileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

var _ ProfileRepository = (*profileRepository)(nil)

// GetByUserID returns the profile, or nil without error when no profile
// exists yet. The recommendation pipeline treats a missing profile as a
// brand-new user.
func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, display_name, email, created_at
		FROM user_profiles
		WHERE user_id = $1`, userID)

	profile := &models.UserProfile{}
	err := row.Scan(&profile.UserID, &profile.DisplayName, &profile.Email, &profile.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}
