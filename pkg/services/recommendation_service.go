package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/llm"
	"github.com/cyberpath-academy/learning-engine/pkg/models"
	"github.com/cyberpath-academy/learning-engine/pkg/repositories"
)

// milestones are the completed-course counts worth celebrating, in order.
var milestones = []int{1, 3, 5, 10, 15}

// RecommendationService is the single entry point for course
// recommendations. It never returns an error: every failure mode surfaces
// as Success=false inside the response.
type RecommendationService interface {
	GetCourseRecommendations(ctx context.Context, userID uuid.UUID, opts models.RecommendationOptions) *models.RecommendationResponse
}

type recommendationService struct {
	loader         *SignalLoader
	catalog        CatalogService
	progressRepo   repositories.ProgressRepository
	advisor        llm.AdvisorClient
	breaker        *llm.CircuitBreaker
	advisorTimeout time.Duration
	weights        AlgorithmWeights
	combiner       Combiner
	maxDefault     int
	logger         *zap.Logger
}

// NewRecommendationService wires the recommendation pipeline. advisor may be
// nil when no AI endpoint is configured; the AI algorithm then contributes
// nothing.
func NewRecommendationService(
	loader *SignalLoader,
	catalog CatalogService,
	progressRepo repositories.ProgressRepository,
	advisor llm.AdvisorClient,
	breaker *llm.CircuitBreaker,
	advisorTimeout time.Duration,
	weights AlgorithmWeights,
	combiner Combiner,
	maxDefault int,
	logger *zap.Logger,
) RecommendationService {
	if maxDefault <= 0 {
		maxDefault = 5
	}
	return &recommendationService{
		loader:         loader,
		catalog:        catalog,
		progressRepo:   progressRepo,
		advisor:        advisor,
		breaker:        breaker,
		advisorTimeout: advisorTimeout,
		weights:        weights,
		combiner:       combiner,
		maxDefault:     maxDefault,
		logger:         logger.Named("recommendations"),
	}
}

var _ RecommendationService = (*recommendationService)(nil)

func (s *recommendationService) GetCourseRecommendations(ctx context.Context, userID uuid.UUID, opts models.RecommendationOptions) (response *models.RecommendationResponse) {
	// The facade boundary: nothing below may surface as a raw failure.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recommendation pipeline panicked",
				zap.String("user_id", userID.String()), zap.Any("panic", r))
			response = &models.RecommendationResponse{
				Success: false,
				Error:   fmt.Sprintf("recommendation pipeline failed: %v", r),
			}
		}
	}()

	if opts.MaxRecommendations <= 0 {
		opts.MaxRecommendations = s.maxDefault
	}

	signals := s.loader.Load(ctx, userID)
	catalog := s.catalog.Courses(ctx)

	var candidates []*models.Candidate
	candidates = append(candidates, skillGapCandidates(signals, catalog, s.weights)...)
	candidates = append(candidates, performanceCandidates(signals, catalog, s.weights)...)
	candidates = append(candidates, difficultyCandidates(signals, catalog, s.weights)...)
	candidates = append(candidates, affinityCandidates(signals, catalog, s.weights)...)
	candidates = append(candidates, peerCandidates(ctx, s.progressRepo, signals, catalog, s.weights, s.logger)...)
	candidates = append(candidates, advisorCandidates(ctx, s.advisor, s.breaker, s.advisorTimeout, signals, catalog, s.weights, s.logger)...)

	merged := mergeAndRank(candidates, signals.CompletedCourseIDs(), s.combiner, opts)

	hasPriorProgress := len(signals.Progress) > 0
	recommendations := make([]*models.Recommendation, 0, len(merged))
	for _, entry := range merged {
		recommendations = append(recommendations, enrich(entry, hasPriorProgress))
	}

	completedCount := signals.CompletedCount()
	summary := &models.Summary{
		TotalAnalyzed:     len(catalog),
		UserLevel:         signals.Level(),
		StrongestCategory: strongestCategory(categoryAffinity(signals, catalog)),
		NextMilestone:     nextMilestone(completedCount),
	}

	s.logger.Info("recommendations generated",
		zap.String("user_id", userID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("recommendations", len(recommendations)),
		zap.String("combiner", s.combiner.Name()))

	return &models.RecommendationResponse{
		Success:         true,
		Recommendations: recommendations,
		Summary:         summary,
	}
}

// nextMilestone reports the distance to the next unmet completed-course
// milestone, or a generic encouragement once all are passed.
func nextMilestone(completed int) string {
	for _, m := range milestones {
		if completed < m {
			remaining := m - completed
			if remaining == 1 {
				return fmt.Sprintf("Complete 1 more course to reach %d completed", m)
			}
			return fmt.Sprintf("Complete %d more courses to reach %d completed", remaining, m)
		}
	}
	return "You've passed every milestone - keep learning!"
}
