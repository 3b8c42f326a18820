package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
	"github.com/cyberpath-academy/learning-engine/pkg/repositories"
)

// peerCandidates recommends the courses most often completed by other users
// at the same derived experience level. This is the only algorithm that does
// its own data access; any failure degrades to no candidates.
func peerCandidates(
	ctx context.Context,
	progressRepo repositories.ProgressRepository,
	signals *UserSignals,
	catalog []*models.Course,
	weights AlgorithmWeights,
	logger *zap.Logger,
) []*models.Candidate {
	completions, err := progressRepo.ListPeerCompletions(ctx, signals.UserID)
	if err != nil {
		logger.Error("failed to load peer completions, skipping peer recommendations",
			zap.String("user_id", signals.UserID.String()), zap.Error(err))
		return nil
	}
	if len(completions) == 0 {
		return nil
	}

	// Group completions per peer so each peer's level can be derived from
	// their own completed-course count.
	byPeer := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range completions {
		byPeer[c.UserID] = append(byPeer[c.UserID], c.CourseID)
	}

	level := signals.Level()
	peerCount := 0
	matches := make(map[uuid.UUID]int)
	for _, courseIDs := range byPeer {
		if models.DeriveUserLevel(len(courseIDs)) != level {
			continue
		}
		peerCount++
		for _, courseID := range courseIDs {
			matches[courseID]++
		}
	}
	if peerCount == 0 {
		return nil
	}

	type popular struct {
		courseID uuid.UUID
		matches  int
	}
	ranked := make([]popular, 0, len(matches))
	for courseID, n := range matches {
		ranked = append(ranked, popular{courseID, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].matches != ranked[j].matches {
			return ranked[i].matches > ranked[j].matches
		}
		return ranked[i].courseID.String() < ranked[j].courseID.String()
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	byID := make(map[uuid.UUID]*models.Course, len(catalog))
	for _, course := range catalog {
		byID[course.ID] = course
	}

	weight := weights.For(models.AlgorithmPeer)
	var candidates []*models.Candidate
	for _, p := range ranked {
		course, ok := byID[p.courseID]
		if !ok {
			continue
		}
		score := float64(p.matches) / float64(peerCount)
		candidates = append(candidates, &models.Candidate{
			Course: course,
			Score:  score,
			Reasons: []string{fmt.Sprintf("Completed by %d of %d learners at your level",
				p.matches, peerCount)},
			Urgency:   models.UrgencyLow,
			Algorithm: models.AlgorithmPeer,
			Weight:    weight,
		})
	}

	return candidates
}
