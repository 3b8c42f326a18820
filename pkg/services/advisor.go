package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/llm"
	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

const advisorSystemInstruction = "You are a cybersecurity learning advisor for an online training platform. " +
	"Given a learner profile and the course catalog, recommend the courses that best fit the learner's " +
	"level and goals. Respond with a JSON object of the form {\"course_ids\": [\"<id>\", ...]} using ids " +
	"from the catalog. If you cannot produce JSON, name the exact course titles instead."

// advisorScore is the fixed score assigned to every AI-suggested course.
const advisorScore = 0.85

// maxAdvisorCandidates caps how many AI suggestions survive.
const maxAdvisorCandidates = 3

// advisorProfile is the compact learner summary sent to the advisor.
type advisorProfile struct {
	Level             string  `json:"level"`
	CompletedCourses  int     `json:"completed_courses"`
	MeanQuizScore     float64 `json:"mean_quiz_score"`
	StrongestCategory string  `json:"strongest_category,omitempty"`
	WeakestCategory   string  `json:"weakest_category,omitempty"`
	LearningPattern   string  `json:"learning_pattern"`
}

// advisorCatalogEntry is one course as presented to the advisor.
type advisorCatalogEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// advisorCandidates asks the AI advisor for personalized picks. Best-effort
// only: a nil client, open circuit, timeout, transport failure, or
// unparseable response all yield an empty list and never block the other
// algorithms.
func advisorCandidates(
	ctx context.Context,
	client llm.AdvisorClient,
	breaker *llm.CircuitBreaker,
	timeout time.Duration,
	signals *UserSignals,
	catalog []*models.Course,
	weights AlgorithmWeights,
	logger *zap.Logger,
) []*models.Candidate {
	if client == nil || len(catalog) == 0 {
		return nil
	}

	if breaker != nil {
		allowed, err := breaker.Allow()
		if !allowed {
			logger.Warn("advisor call skipped", zap.Error(err))
			return nil
		}
	}

	prompt, err := buildAdvisorPrompt(signals, catalog)
	if err != nil {
		logger.Error("failed to build advisor prompt", zap.Error(err))
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := client.GenerateResponse(callCtx, prompt, advisorSystemInstruction, 0.7)
	if err != nil {
		if breaker != nil {
			breaker.RecordFailure()
		}
		logger.Warn("advisor call failed, skipping AI recommendations", zap.Error(err))
		return nil
	}
	if breaker != nil {
		breaker.RecordSuccess()
	}

	matched := matchAdvisorResponse(response, catalog)
	if len(matched) == 0 {
		logger.Warn("advisor response mentioned no catalog courses")
		return nil
	}
	if len(matched) > maxAdvisorCandidates {
		matched = matched[:maxAdvisorCandidates]
	}

	weight := weights.For(models.AlgorithmAIPersonalized)
	candidates := make([]*models.Candidate, 0, len(matched))
	for _, course := range matched {
		candidates = append(candidates, &models.Candidate{
			Course:    course,
			Score:     advisorScore,
			Reasons:   []string{"Personalized pick from your AI learning advisor"},
			Urgency:   models.UrgencyMedium,
			Algorithm: models.AlgorithmAIPersonalized,
			Weight:    weight,
		})
	}
	return candidates
}

// buildAdvisorPrompt serializes the learner profile and catalog into the
// advisor prompt.
func buildAdvisorPrompt(signals *UserSignals, catalog []*models.Course) (string, error) {
	affinity := categoryAffinity(signals, catalog)

	profile := advisorProfile{
		Level:             signals.Level(),
		CompletedCourses:  signals.CompletedCount(),
		MeanQuizScore:     signals.MeanQuizScore(),
		StrongestCategory: strongestCategory(affinity),
		WeakestCategory:   weakestQuizCategory(signals),
		LearningPattern:   learningPattern(signals),
	}

	entries := make([]advisorCatalogEntry, 0, len(catalog))
	for _, course := range catalog {
		entries = append(entries, advisorCatalogEntry{
			ID:         course.ID.String(),
			Title:      course.Title,
			Category:   course.Category,
			Difficulty: course.Difficulty,
		})
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to serialize learner profile: %w", err)
	}
	catalogJSON, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to serialize catalog: %w", err)
	}

	return fmt.Sprintf("Learner profile:\n%s\n\nCourse catalog:\n%s\n\nRecommend up to %d courses.",
		profileJSON, catalogJSON, maxAdvisorCandidates), nil
}

// matchAdvisorResponse resolves advisor output to catalog courses: first as
// structured JSON ({"course_ids": [...]}), then by case-insensitive title
// substring matching over the raw text.
func matchAdvisorResponse(response string, catalog []*models.Course) []*models.Course {
	if courses := matchStructured(response, catalog); len(courses) > 0 {
		return courses
	}

	var matched []*models.Course
	lower := strings.ToLower(response)
	for _, course := range catalog {
		if course.Title == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(course.Title)) {
			matched = append(matched, course)
		}
	}
	return matched
}

func matchStructured(response string, catalog []*models.Course) []*models.Course {
	raw, err := llm.ExtractJSON(response)
	if err != nil {
		return nil
	}

	var structured struct {
		CourseIDs []string `json:"course_ids"`
	}
	if err := json.Unmarshal([]byte(raw), &structured); err != nil || len(structured.CourseIDs) == 0 {
		return nil
	}

	byID := make(map[string]*models.Course, len(catalog))
	for _, course := range catalog {
		byID[course.ID.String()] = course
	}

	var matched []*models.Course
	seen := make(map[string]bool)
	for _, id := range structured.CourseIDs {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		if course, ok := byID[id]; ok {
			matched = append(matched, course)
		}
	}
	return matched
}

// weakestQuizCategory returns the category with the lowest mean quiz score,
// or empty when the user has no attempts.
func weakestQuizCategory(signals *UserSignals) string {
	worst := ""
	worstMean := 101.0
	for category, scores := range signals.QuizByCategory() {
		mean := meanOf(scores)
		if mean < worstMean || (mean == worstMean && category < worst) {
			worst = category
			worstMean = mean
		}
	}
	return worst
}

// learningPattern classifies the user's study behavior with a coarse tag.
func learningPattern(signals *UserSignals) string {
	switch {
	case len(signals.Progress) == 0 && len(signals.Quiz) == 0:
		return "new"
	case len(signals.Quiz) > len(signals.Progress):
		return "quiz-driven"
	case signals.CompletedCount() >= 3:
		return "course-completer"
	default:
		return "explorer"
	}
}
