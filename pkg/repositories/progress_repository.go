package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cyberpath-academy/learning-engine/pkg/database"
	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// ProgressRepository provides data access for course progress records.
type ProgressRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ProgressRecord, error)
	// ListPeerCompletions returns completed (user, course) pairs for every
	// user except the one given. Feeds the peer-collaborative algorithm.
	ListPeerCompletions(ctx context.Context, excludeUserID uuid.UUID) ([]models.PeerCompletion, error)
}

type progressRepository struct {
	db *database.DB
}

func NewProgressRepository(db *database.DB) ProgressRepository {
	return &progressRepository{db: db}
}

var _ ProgressRepository = (*progressRepository)(nil)

func (r *progressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ProgressRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, course_id, completed, progress, updated_at
		FROM user_progress
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var records []*models.ProgressRecord
	for rows.Next() {
		record := &models.ProgressRecord{}
		if err := rows.Scan(
			&record.UserID, &record.CourseID, &record.Completed,
			&record.Progress, &record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress records: %w", err)
	}

	return records, nil
}

func (r *progressRepository) ListPeerCompletions(ctx context.Context, excludeUserID uuid.UUID) ([]models.PeerCompletion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, course_id
		FROM user_progress
		WHERE completed = true AND user_id != $1`, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list peer completions: %w", err)
	}
	defer rows.Close()

	var completions []models.PeerCompletion
	for rows.Next() {
		var c models.PeerCompletion
		if err := rows.Scan(&c.UserID, &c.CourseID); err != nil {
			return nil, fmt.Errorf("failed to scan peer completion: %w", err)
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating peer completions: %w", err)
	}

	return completions, nil
}
