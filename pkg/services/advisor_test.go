package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/llm"
	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

func advisorTestCatalog() []*models.Course {
	return []*models.Course{
		newCourse("Network Defense Fundamentals", "network-security", models.DifficultyBeginner, 5),
		newCourse("Advanced Penetration Testing", "offensive-security", models.DifficultyAdvanced, 8),
		newCourse("Incident Response Playbooks", "operations", models.DifficultyIntermediate, 6),
		newCourse("Applied Cryptography", "cryptography", models.DifficultyIntermediate, 7),
	}
}

func TestAdvisorCandidates_StructuredResponse(t *testing.T) {
	catalog := advisorTestCatalog()
	client := &llm.MockAdvisorClient{
		GenerateResponseFunc: func(_ context.Context, _, _ string, _ float64) (string, error) {
			return fmt.Sprintf(`{"course_ids": ["%s", "%s"]}`, catalog[0].ID, catalog[2].ID), nil
		},
	}
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), client, nil, time.Second,
		signals, catalog, defaultWeights(), zap.NewNop())

	require.Len(t, candidates, 2)
	assert.Equal(t, "Network Defense Fundamentals", candidates[0].Course.Title)
	assert.Equal(t, "Incident Response Playbooks", candidates[1].Course.Title)
	for _, c := range candidates {
		assert.Equal(t, 0.85, c.Score)
		assert.Equal(t, models.AlgorithmAIPersonalized, c.Algorithm)
	}
}

func TestAdvisorCandidates_TitleSubstringFallback(t *testing.T) {
	catalog := advisorTestCatalog()
	client := &llm.MockAdvisorClient{
		GenerateResponseFunc: func(_ context.Context, _, _ string, _ float64) (string, error) {
			return "I'd start with network defense fundamentals, then move on to APPLIED CRYPTOGRAPHY.", nil
		},
	}
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), client, nil, time.Second,
		signals, catalog, defaultWeights(), zap.NewNop())

	require.Len(t, candidates, 2)
	titles := []string{candidates[0].Course.Title, candidates[1].Course.Title}
	assert.ElementsMatch(t, []string{"Network Defense Fundamentals", "Applied Cryptography"}, titles)
}

func TestAdvisorCandidates_CapsAtThree(t *testing.T) {
	catalog := advisorTestCatalog()
	client := &llm.MockAdvisorClient{
		GenerateResponseFunc: func(_ context.Context, _, _ string, _ float64) (string, error) {
			return fmt.Sprintf(`{"course_ids": ["%s", "%s", "%s", "%s"]}`,
				catalog[0].ID, catalog[1].ID, catalog[2].ID, catalog[3].ID), nil
		},
	}
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), client, nil, time.Second,
		signals, catalog, defaultWeights(), zap.NewNop())

	assert.Len(t, candidates, 3)
}

func TestAdvisorCandidates_ErrorYieldsEmpty(t *testing.T) {
	client := &llm.MockAdvisorClient{
		GenerateResponseFunc: func(_ context.Context, _, _ string, _ float64) (string, error) {
			return "", assert.AnError
		},
	}
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), client, nil, time.Second,
		signals, advisorTestCatalog(), defaultWeights(), zap.NewNop())

	assert.Empty(t, candidates)
}

func TestAdvisorCandidates_UnmatchableResponseYieldsEmpty(t *testing.T) {
	client := &llm.MockAdvisorClient{
		GenerateResponseFunc: func(_ context.Context, _, _ string, _ float64) (string, error) {
			return "You should study hard and get plenty of sleep.", nil
		},
	}
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), client, nil, time.Second,
		signals, advisorTestCatalog(), defaultWeights(), zap.NewNop())

	assert.Empty(t, candidates)
}

func TestAdvisorCandidates_NilClientYieldsEmpty(t *testing.T) {
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), nil, nil, time.Second,
		signals, advisorTestCatalog(), defaultWeights(), zap.NewNop())

	assert.Empty(t, candidates)
}

func TestAdvisorCandidates_OpenCircuitSkipsCall(t *testing.T) {
	breaker := llm.NewCircuitBreaker(llm.CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Minute})
	breaker.RecordFailure()

	called := false
	client := &llm.MockAdvisorClient{
		GenerateResponseFunc: func(_ context.Context, _, _ string, _ float64) (string, error) {
			called = true
			return "", nil
		},
	}
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), client, breaker, time.Second,
		signals, advisorTestCatalog(), defaultWeights(), zap.NewNop())

	assert.Empty(t, candidates)
	assert.False(t, called)
}

func TestAdvisorCandidates_TimeoutApplied(t *testing.T) {
	client := &llm.MockAdvisorClient{
		GenerateResponseFunc: func(ctx context.Context, _, _ string, _ float64) (string, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
			return "", context.DeadlineExceeded
		},
	}
	signals := &UserSignals{UserID: uuid.New()}

	candidates := advisorCandidates(context.Background(), client, nil, time.Second,
		signals, advisorTestCatalog(), defaultWeights(), zap.NewNop())

	assert.Empty(t, candidates)
}

func TestBuildAdvisorPrompt_IncludesProfileAndCatalog(t *testing.T) {
	userID := uuid.New()
	catalog := advisorTestCatalog()
	signals := &UserSignals{
		UserID: userID,
		Quiz: []*models.QuizAttempt{
			quizAttempt(userID, "network-security", 45),
			quizAttempt(userID, "cryptography", 95),
		},
	}

	prompt, err := buildAdvisorPrompt(signals, catalog)
	require.NoError(t, err)

	assert.Contains(t, prompt, `"level":"Beginner"`)
	assert.Contains(t, prompt, `"weakest_category":"network-security"`)
	assert.Contains(t, prompt, "Network Defense Fundamentals")
	assert.Contains(t, prompt, catalog[0].ID.String())
}

func TestLearningPattern(t *testing.T) {
	userID := uuid.New()

	assert.Equal(t, "new", learningPattern(&UserSignals{UserID: userID}))

	quizDriven := &UserSignals{
		UserID: userID,
		Quiz:   []*models.QuizAttempt{quizAttempt(userID, "x", 80), quizAttempt(userID, "y", 70)},
		Progress: []*models.ProgressRecord{
			{UserID: userID, CourseID: uuid.New(), Progress: 20},
		},
	}
	assert.Equal(t, "quiz-driven", learningPattern(quizDriven))

	completer := &UserSignals{UserID: userID}
	for i := 0; i < 3; i++ {
		completer.Progress = append(completer.Progress, completedProgress(userID, uuid.New()))
	}
	assert.Equal(t, "course-completer", learningPattern(completer))

	explorer := &UserSignals{
		UserID: userID,
		Progress: []*models.ProgressRecord{
			{UserID: userID, CourseID: uuid.New(), Progress: 40},
		},
	}
	assert.Equal(t, "explorer", learningPattern(explorer))
}
