package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cyberpath-academy/learning-engine/pkg/apperrors"
	"github.com/cyberpath-academy/learning-engine/pkg/database"
	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// CourseRepository provides data access for the course catalog.
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error)
}

type courseRepository struct {
	db *database.DB
}

func NewCourseRepository(db *database.DB) CourseRepository {
	return &courseRepository{db: db}
}

var _ CourseRepository = (*courseRepository)(nil)

func (r *courseRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, category, difficulty, price_cents, created_at
		FROM courses
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	byID := make(map[uuid.UUID]*models.Course)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
		byID[course.ID] = course
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	if err := r.attachLessons(ctx, byID); err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, title, description, category, difficulty, price_cents, created_at
		FROM courses
		WHERE id = $1`, courseID)

	course := &models.Course{}
	err := row.Scan(
		&course.ID, &course.Title, &course.Description, &course.Category,
		&course.Difficulty, &course.PriceCents, &course.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	byID := map[uuid.UUID]*models.Course{course.ID: course}
	if err := r.attachLessons(ctx, byID); err != nil {
		return nil, err
	}

	return course, nil
}

// attachLessons loads the lessons for every course in byID, ordered by position.
func (r *courseRepository) attachLessons(ctx context.Context, byID map[uuid.UUID]*models.Course) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, title, position
		FROM lessons
		WHERE course_id = ANY($1)
		ORDER BY course_id, position`, ids)
	if err != nil {
		return fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lesson models.Lesson
		var courseID uuid.UUID
		if err := rows.Scan(&lesson.ID, &courseID, &lesson.Title, &lesson.Position); err != nil {
			return fmt.Errorf("failed to scan lesson: %w", err)
		}
		if course, ok := byID[courseID]; ok {
			course.Lessons = append(course.Lessons, lesson)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating lessons: %w", err)
	}

	return nil
}

func scanCourse(rows pgx.Rows) (*models.Course, error) {
	course := &models.Course{}
	err := rows.Scan(
		&course.ID, &course.Title, &course.Description, &course.Category,
		&course.Difficulty, &course.PriceCents, &course.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return course, nil
}
