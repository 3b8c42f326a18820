package services

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// Combiner folds the scores of duplicate candidates for one course into a
// single merged score. Implementations must keep the result in [0, 1].
type Combiner interface {
	// Combine folds a new candidate into the running score for a course.
	Combine(current float64, candidate *models.Candidate) float64
	// Name identifies the combiner in logs and config.
	Name() string
}

// MaxScoreCombiner keeps the highest raw score seen for a course. This is
// the default behavior; algorithm weights are carried but not applied.
type MaxScoreCombiner struct{}

func (MaxScoreCombiner) Combine(current float64, candidate *models.Candidate) float64 {
	return math.Max(current, candidate.Score)
}

func (MaxScoreCombiner) Name() string { return "max" }

// WeightedSumCombiner accumulates score x algorithm-weight across duplicate
// candidates, capped at 1.0, so agreement between algorithms raises a
// course's standing instead of being discarded.
type WeightedSumCombiner struct{}

func (WeightedSumCombiner) Combine(current float64, candidate *models.Candidate) float64 {
	return math.Min(current+candidate.Score*candidate.Weight, 1.0)
}

func (WeightedSumCombiner) Name() string { return "weighted" }

// NewCombiner returns the combiner selected by config name, defaulting to
// max-score for unrecognized values.
func NewCombiner(name string) Combiner {
	if name == "weighted" {
		return WeightedSumCombiner{}
	}
	return MaxScoreCombiner{}
}

// mergedEntry is the fold state for one course during merging.
type mergedEntry struct {
	course    *models.Course
	score     float64
	bestScore float64
	reasons   []string
	seen      map[string]bool
	urgency   string
}

// mergeAndRank folds candidates from all algorithms into one ranked list:
// completed courses are dropped (unless requested), duplicates fold by
// course id with reasons unioned, then the list is sorted by score, focus
// filtered, and cut to the top maxRecommendations.
func mergeAndRank(
	candidates []*models.Candidate,
	completed map[uuid.UUID]bool,
	combiner Combiner,
	opts models.RecommendationOptions,
) []*mergedEntry {
	entries := make(map[uuid.UUID]*mergedEntry)
	var order []uuid.UUID

	for _, c := range candidates {
		if c.Course == nil {
			continue
		}
		if !opts.IncludeCompleted && completed[c.Course.ID] {
			continue
		}

		entry, ok := entries[c.Course.ID]
		if !ok {
			entry = &mergedEntry{
				course:  c.Course,
				urgency: c.Urgency,
				seen:    make(map[string]bool),
			}
			entries[c.Course.ID] = entry
			order = append(order, c.Course.ID)
		}

		entry.score = combiner.Combine(entry.score, c)

		// Urgency follows the single strongest raw vote.
		if c.Score > entry.bestScore {
			entry.bestScore = c.Score
			entry.urgency = c.Urgency
		}

		for _, reason := range c.Reasons {
			if entry.seen[reason] {
				continue
			}
			entry.seen[reason] = true
			entry.reasons = append(entry.reasons, reason)
		}
	}

	merged := make([]*mergedEntry, 0, len(entries))
	for _, id := range order {
		merged = append(merged, entries[id])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})

	if opts.FocusArea != "" {
		merged = filterFocusArea(merged, opts.FocusArea)
	}

	max := opts.MaxRecommendations
	if max <= 0 {
		max = 5
	}
	if len(merged) > max {
		merged = merged[:max]
	}

	return merged
}

// filterFocusArea keeps entries whose category matches the focus area or
// whose reasons mention it.
func filterFocusArea(merged []*mergedEntry, focusArea string) []*mergedEntry {
	needle := strings.ToLower(focusArea)
	filtered := merged[:0]
	for _, entry := range merged {
		if strings.Contains(strings.ToLower(entry.course.Category), needle) {
			filtered = append(filtered, entry)
			continue
		}
		for _, reason := range entry.reasons {
			if strings.Contains(strings.ToLower(reason), needle) {
				filtered = append(filtered, entry)
				break
			}
		}
	}
	return filtered
}

// enrich converts a merged entry into the final recommendation shape.
func enrich(entry *mergedEntry, hasPriorProgress bool) *models.Recommendation {
	confidence := math.Min(entry.score*100, 99)

	strength := models.StrengthWeak
	switch {
	case entry.score >= 0.8:
		strength = models.StrengthStrong
	case entry.score >= 0.6:
		strength = models.StrengthModerate
	}

	multiplier := 1.0
	if hasPriorProgress {
		multiplier = 1.2
	}
	estimated := int(math.Round(float64(entry.course.LessonCount()) * multiplier))

	return &models.Recommendation{
		Course:         entry.course,
		Score:          entry.score,
		Reasons:        entry.reasons,
		Urgency:        entry.urgency,
		Confidence:     confidence,
		Strength:       strength,
		EstimatedHours: estimated,
	}
}
