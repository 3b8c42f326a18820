package services

import (
	"github.com/google/uuid"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// difficultyCandidates walks the user up the difficulty ladder: courses at
// the highest completed difficulty or one step above it. Users with no
// progress history start at beginner workshops.
func difficultyCandidates(signals *UserSignals, catalog []*models.Course, weights AlgorithmWeights) []*models.Candidate {
	weight := weights.For(models.AlgorithmDifficulty)

	if len(signals.Progress) == 0 {
		var candidates []*models.Candidate
		for _, course := range catalog {
			if course.Category != models.CategoryWorkshop || course.Difficulty != models.DifficultyBeginner {
				continue
			}
			candidates = append(candidates, &models.Candidate{
				Course:    course,
				Score:     0.8,
				Reasons:   []string{"Perfect introduction to hands-on security work"},
				Urgency:   models.UrgencyMedium,
				Algorithm: models.AlgorithmDifficulty,
				Weight:    weight,
			})
		}
		return candidates
	}

	maxWeight := 0
	byID := make(map[uuid.UUID]*models.Course, len(catalog))
	for _, course := range catalog {
		byID[course.ID] = course
	}
	for _, p := range signals.Progress {
		if !p.Completed {
			continue
		}
		course, ok := byID[p.CourseID]
		if !ok {
			continue
		}
		if w := models.DifficultyWeight(course.Difficulty); w > maxWeight {
			maxWeight = w
		}
	}

	var candidates []*models.Candidate
	for _, course := range catalog {
		w := models.DifficultyWeight(course.Difficulty)
		if w != maxWeight && w != maxWeight+1 {
			continue
		}
		candidates = append(candidates, &models.Candidate{
			Course:    course,
			Score:     0.75,
			Reasons:   []string{"Matches your current skill progression"},
			Urgency:   models.UrgencyLow,
			Algorithm: models.AlgorithmDifficulty,
			Weight:    weight,
		})
	}

	return candidates
}
