package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cyberpath-academy/learning-engine/pkg/database"
	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// QuizRepository provides data access for quiz attempts. The ordered and
// unordered forms exist so the signal loader can run the ordered query as
// the primary and fall back to the unordered one when the store cannot
// serve the composite sort.
type QuizRepository interface {
	ListByUserOrdered(ctx context.Context, userID uuid.UUID) ([]*models.QuizAttempt, error)
	ListByUserUnordered(ctx context.Context, userID uuid.UUID) ([]*models.QuizAttempt, error)
}

type quizRepository struct {
	db *database.DB
}

func NewQuizRepository(db *database.DB) QuizRepository {
	return &quizRepository{db: db}
}

var _ QuizRepository = (*quizRepository)(nil)

func (r *quizRepository) ListByUserOrdered(ctx context.Context, userID uuid.UUID) ([]*models.QuizAttempt, error) {
	return r.listByUser(ctx, userID, true)
}

func (r *quizRepository) ListByUserUnordered(ctx context.Context, userID uuid.UUID) ([]*models.QuizAttempt, error) {
	return r.listByUser(ctx, userID, false)
}

func (r *quizRepository) listByUser(ctx context.Context, userID uuid.UUID, ordered bool) ([]*models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, category, percentage, completed_at
		FROM quiz_attempts
		WHERE user_id = $1`
	if ordered {
		query += `
		ORDER BY completed_at DESC`
	}

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.QuizAttempt
	for rows.Next() {
		attempt, err := scanQuizAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz attempts: %w", err)
	}

	return attempts, nil
}

func scanQuizAttempt(rows pgx.Rows) (*models.QuizAttempt, error) {
	attempt := &models.QuizAttempt{}
	err := rows.Scan(
		&attempt.ID, &attempt.UserID, &attempt.Category,
		&attempt.Percentage, &attempt.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
	}
	return attempt, nil
}
