package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// categoryAffinity accumulates an engagement score per category: progress
// fraction (1.0 when completed) per progress record plus percentage/100 per
// quiz attempt.
func categoryAffinity(signals *UserSignals, catalog []*models.Course) map[string]float64 {
	byID := make(map[uuid.UUID]*models.Course, len(catalog))
	for _, course := range catalog {
		byID[course.ID] = course
	}

	affinity := make(map[string]float64)
	for _, p := range signals.Progress {
		course, ok := byID[p.CourseID]
		if !ok {
			continue
		}
		if p.Completed {
			affinity[course.Category] += 1.0
		} else {
			affinity[course.Category] += p.Progress / 100
		}
	}
	for _, a := range signals.Quiz {
		affinity[a.Category] += a.Percentage / 100
	}

	return affinity
}

// strongestCategory returns the category with the highest affinity score,
// or empty when the user has no engagement at all.
func strongestCategory(affinity map[string]float64) string {
	best := ""
	bestScore := 0.0
	for category, score := range affinity {
		if score > bestScore || (score == bestScore && score > 0 && category < best) {
			best = category
			bestScore = score
		}
	}
	return best
}

// affinityCandidates recommends every course in the user's top two
// categories by accumulated engagement.
func affinityCandidates(signals *UserSignals, catalog []*models.Course, weights AlgorithmWeights) []*models.Candidate {
	affinity := categoryAffinity(signals, catalog)
	if len(affinity) == 0 {
		return nil
	}

	type ranked struct {
		category string
		score    float64
	}
	order := make([]ranked, 0, len(affinity))
	for category, score := range affinity {
		order = append(order, ranked{category, score})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].score != order[j].score {
			return order[i].score > order[j].score
		}
		return order[i].category < order[j].category
	})
	if len(order) > 2 {
		order = order[:2]
	}

	weight := weights.For(models.AlgorithmAffinity)
	var candidates []*models.Candidate
	for _, top := range order {
		score := top.score / 3
		if score > 1 {
			score = 1
		}
		reason := fmt.Sprintf("Based on your interest in %s", top.category)
		for _, course := range catalog {
			if course.Category != top.category {
				continue
			}
			candidates = append(candidates, &models.Candidate{
				Course:    course,
				Score:     score,
				Reasons:   []string{reason},
				Urgency:   models.UrgencyLow,
				Algorithm: models.AlgorithmAffinity,
				Weight:    weight,
			})
		}
	}

	return candidates
}
