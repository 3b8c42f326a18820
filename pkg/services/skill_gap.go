package services

import (
	"fmt"
	"strings"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// skillGapCandidates recommends courses covering quiz categories the user
// scores poorly in. Categories with a mean below 75% are gaps; below 60%
// they are urgent.
func skillGapCandidates(signals *UserSignals, catalog []*models.Course, weights AlgorithmWeights) []*models.Candidate {
	var candidates []*models.Candidate

	for category, scores := range signals.QuizByCategory() {
		mean := meanOf(scores)
		if mean >= 75 {
			continue
		}

		score := 0.7
		urgency := models.UrgencyMedium
		if mean < 60 {
			score = 0.9
			urgency = models.UrgencyHigh
		}

		reason := fmt.Sprintf("Improve %s skills (current score: %.0f%%)", category, mean)
		for _, course := range catalog {
			if !matchesSkill(course, category) {
				continue
			}
			candidates = append(candidates, &models.Candidate{
				Course:    course,
				Score:     score,
				Reasons:   []string{reason},
				Urgency:   urgency,
				Algorithm: models.AlgorithmSkillGap,
				Weight:    weights.For(models.AlgorithmSkillGap),
			})
		}
	}

	return candidates
}

// matchesSkill reports whether a course teaches the given skill: either its
// category matches or its description mentions the skill name.
func matchesSkill(course *models.Course, skill string) bool {
	if strings.EqualFold(course.Category, skill) {
		return true
	}
	return strings.Contains(strings.ToLower(course.Description), strings.ToLower(skill))
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
