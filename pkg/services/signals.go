package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
	"github.com/cyberpath-academy/learning-engine/pkg/queryguard"
	"github.com/cyberpath-academy/learning-engine/pkg/repositories"
)

// UserSignals is the aggregated read-only snapshot the recommendation
// algorithms score against. Every field degrades to empty rather than
// failing the request.
type UserSignals struct {
	UserID   uuid.UUID
	Progress []*models.ProgressRecord
	Quiz     []*models.QuizAttempt
	Profile  *models.UserProfile
}

// CompletedCourseIDs returns the set of course ids the user has completed.
func (s *UserSignals) CompletedCourseIDs() map[uuid.UUID]bool {
	completed := make(map[uuid.UUID]bool)
	for _, p := range s.Progress {
		if p.Completed {
			completed[p.CourseID] = true
		}
	}
	return completed
}

// CompletedCount returns the number of completed courses.
func (s *UserSignals) CompletedCount() int {
	count := 0
	for _, p := range s.Progress {
		if p.Completed {
			count++
		}
	}
	return count
}

// Level derives the user's experience level from completed courses.
func (s *UserSignals) Level() string {
	return models.DeriveUserLevel(s.CompletedCount())
}

// QuizByCategory groups quiz percentages by category.
func (s *UserSignals) QuizByCategory() map[string][]float64 {
	byCategory := make(map[string][]float64)
	for _, a := range s.Quiz {
		byCategory[a.Category] = append(byCategory[a.Category], a.Percentage)
	}
	return byCategory
}

// MeanQuizScore returns the mean percentage across all attempts, or 0 when
// the user has none.
func (s *UserSignals) MeanQuizScore() float64 {
	if len(s.Quiz) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range s.Quiz {
		sum += a.Percentage
	}
	return sum / float64(len(s.Quiz))
}

// SignalLoader aggregates a user's progress, quiz history, and profile.
type SignalLoader struct {
	progressRepo repositories.ProgressRepository
	quizRepo     repositories.QuizRepository
	profileRepo  repositories.ProfileRepository
	guard        *queryguard.Executor
	logger       *zap.Logger
}

// NewSignalLoader creates a signal loader.
func NewSignalLoader(
	progressRepo repositories.ProgressRepository,
	quizRepo repositories.QuizRepository,
	profileRepo repositories.ProfileRepository,
	guard *queryguard.Executor,
	logger *zap.Logger,
) *SignalLoader {
	return &SignalLoader{
		progressRepo: progressRepo,
		quizRepo:     quizRepo,
		profileRepo:  profileRepo,
		guard:        guard,
		logger:       logger.Named("signal-loader"),
	}
}

// Load fetches the three signal sources concurrently and waits for all of
// them. A failure in any source logs and degrades that source to empty; it
// never fails the whole load.
func (l *SignalLoader) Load(ctx context.Context, userID uuid.UUID) *UserSignals {
	signals := &UserSignals{UserID: userID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := l.progressRepo.ListByUser(gctx, userID)
		if err != nil {
			l.logger.Error("failed to load progress, continuing without it",
				zap.String("user_id", userID.String()), zap.Error(err))
			return nil
		}
		signals.Progress = records
		return nil
	})

	g.Go(func() error {
		signals.Quiz = l.loadQuizPerformance(gctx, userID)
		return nil
	})

	g.Go(func() error {
		profile, err := l.profileRepo.GetByUserID(gctx, userID)
		if err != nil {
			l.logger.Error("failed to load profile, continuing without it",
				zap.String("user_id", userID.String()), zap.Error(err))
			return nil
		}
		signals.Profile = profile
		return nil
	})

	// Workers swallow their own errors, so Wait only synchronizes.
	_ = g.Wait()

	return signals
}

// loadQuizPerformance fetches quiz attempts newest-first through the query
// guard: the server-sorted query is primary, the unsorted query plus an
// in-memory sort is the fallback.
func (l *SignalLoader) loadQuizPerformance(ctx context.Context, userID uuid.UUID) []*models.QuizAttempt {
	result, err := queryguard.Execute(ctx, l.guard, queryguard.Query[*models.QuizAttempt]{
		Source:  "quiz-attempts",
		Path:    "quiz_attempts",
		SortBy:  "completed_at",
		SortDir: queryguard.SortDesc,
		SortKey: func(a *models.QuizAttempt) any { return a.CompletedAt },
		Primary: func(ctx context.Context) ([]*models.QuizAttempt, error) {
			return l.quizRepo.ListByUserOrdered(ctx, userID)
		},
		Fallback: func(ctx context.Context) ([]*models.QuizAttempt, error) {
			return l.quizRepo.ListByUserUnordered(ctx, userID)
		},
	})
	if err != nil {
		l.logger.Error("failed to load quiz attempts, continuing without them",
			zap.String("user_id", userID.String()), zap.Error(err))
		return nil
	}

	if result.IndexRequired {
		l.logger.Warn("quiz attempts served by fallback query",
			zap.String("index_link", result.IndexLink))
	}

	return result.Rows
}
