package services

import (
	"fmt"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// performanceCandidates matches course difficulty to the user's overall quiz
// performance tier. New users with no attempts get the introductory tier.
func performanceCandidates(signals *UserSignals, catalog []*models.Course, weights AlgorithmWeights) []*models.Candidate {
	weight := weights.For(models.AlgorithmPerformance)

	if len(signals.Quiz) == 0 {
		var candidates []*models.Candidate
		for _, course := range catalog {
			if course.Difficulty != models.DifficultyBeginner && course.Difficulty != models.DifficultyBeginnerToIntermediate {
				continue
			}
			candidates = append(candidates, &models.Candidate{
				Course:    course,
				Score:     0.8,
				Reasons:   []string{"Great starting point for new learners"},
				Urgency:   models.UrgencyMedium,
				Algorithm: models.AlgorithmPerformance,
				Weight:    weight,
			})
		}
		return candidates
	}

	mean := signals.MeanQuizScore()

	var (
		score        float64
		reason       string
		urgency      string
		wantedLevels []string
		workshopOnly bool
	)
	switch {
	case mean >= 85:
		score = 0.9
		reason = fmt.Sprintf("You're excelling (%.0f%% average) - ready for advanced content", mean)
		urgency = models.UrgencyMedium
		wantedLevels = []string{models.DifficultyAdvanced, models.DifficultyIntermediateToAdvanced}
	case mean >= 70:
		score = 0.7
		reason = fmt.Sprintf("Solid progress (%.0f%% average) - keep building", mean)
		urgency = models.UrgencyLow
		wantedLevels = []string{models.DifficultyIntermediate, models.DifficultyBeginnerToIntermediate}
	default:
		score = 0.6
		reason = fmt.Sprintf("Strengthen your foundations (%.0f%% average)", mean)
		urgency = models.UrgencyHigh
		wantedLevels = []string{models.DifficultyBeginner}
		workshopOnly = true
	}

	var candidates []*models.Candidate
	for _, course := range catalog {
		if !containsString(wantedLevels, course.Difficulty) {
			continue
		}
		if workshopOnly && course.Category != models.CategoryWorkshop {
			continue
		}
		candidates = append(candidates, &models.Candidate{
			Course:    course,
			Score:     score,
			Reasons:   []string{reason},
			Urgency:   urgency,
			Algorithm: models.AlgorithmPerformance,
			Weight:    weight,
		})
	}

	return candidates
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
