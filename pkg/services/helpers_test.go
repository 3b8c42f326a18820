package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

type mockProgressRepo struct {
	records     []*models.ProgressRecord
	listErr     error
	completions []models.PeerCompletion
	peersErr    error
}

func (m *mockProgressRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]*models.ProgressRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockProgressRepo) ListPeerCompletions(_ context.Context, _ uuid.UUID) ([]models.PeerCompletion, error) {
	if m.peersErr != nil {
		return nil, m.peersErr
	}
	return m.completions, nil
}

type mockQuizRepo struct {
	ordered      []*models.QuizAttempt
	orderedErr   error
	unordered    []*models.QuizAttempt
	unorderedErr error
}

func (m *mockQuizRepo) ListByUserOrdered(_ context.Context, _ uuid.UUID) ([]*models.QuizAttempt, error) {
	if m.orderedErr != nil {
		return nil, m.orderedErr
	}
	return m.ordered, nil
}

func (m *mockQuizRepo) ListByUserUnordered(_ context.Context, _ uuid.UUID) ([]*models.QuizAttempt, error) {
	if m.unorderedErr != nil {
		return nil, m.unorderedErr
	}
	return m.unordered, nil
}

type mockProfileRepo struct {
	profile *models.UserProfile
	err     error
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, _ uuid.UUID) (*models.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

type mockCourseRepo struct {
	courses []*models.Course
	err     error
	calls   int
}

func (m *mockCourseRepo) ListCourses(_ context.Context) ([]*models.Course, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, courseID uuid.UUID) (*models.Course, error) {
	for _, c := range m.courses {
		if c.ID == courseID {
			return c, nil
		}
	}
	return nil, m.err
}

func newCourse(title, category, difficulty string, lessonCount int) *models.Course {
	lessons := make([]models.Lesson, lessonCount)
	for i := range lessons {
		lessons[i] = models.Lesson{ID: uuid.New(), Position: i + 1}
	}
	return &models.Course{
		ID:         uuid.New(),
		Title:      title,
		Category:   category,
		Difficulty: difficulty,
		Lessons:    lessons,
		CreatedAt:  time.Now(),
	}
}

func completedProgress(userID uuid.UUID, courseID uuid.UUID) *models.ProgressRecord {
	return &models.ProgressRecord{
		UserID:    userID,
		CourseID:  courseID,
		Completed: true,
		Progress:  100,
		UpdatedAt: time.Now(),
	}
}

func quizAttempt(userID uuid.UUID, category string, percentage float64) *models.QuizAttempt {
	return &models.QuizAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    category,
		Percentage:  percentage,
		CompletedAt: time.Now(),
	}
}
