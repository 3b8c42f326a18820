package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

func candidateFor(course *models.Course, score float64, algorithm, reason string) *models.Candidate {
	return &models.Candidate{
		Course:    course,
		Score:     score,
		Reasons:   []string{reason},
		Urgency:   models.UrgencyMedium,
		Algorithm: algorithm,
		Weight:    DefaultAlgorithmWeights().For(algorithm),
	}
}

func TestMergeAndRank_DeduplicatesByCourse(t *testing.T) {
	course := newCourse("Network Defense", "network-security", models.DifficultyIntermediate, 8)
	candidates := []*models.Candidate{
		candidateFor(course, 0.6, models.AlgorithmSkillGap, "reason one"),
		candidateFor(course, 0.9, models.AlgorithmPerformance, "reason two"),
		candidateFor(course, 0.75, models.AlgorithmDifficulty, "reason one"),
	}

	merged := mergeAndRank(candidates, nil, MaxScoreCombiner{}, models.RecommendationOptions{})

	require.Len(t, merged, 1)
	assert.Equal(t, 0.9, merged[0].score)
	assert.ElementsMatch(t, []string{"reason one", "reason two"}, merged[0].reasons)
}

func TestMergeAndRank_SortsDescendingByScore(t *testing.T) {
	low := newCourse("Low", "web-security", models.DifficultyBeginner, 4)
	high := newCourse("High", "web-security", models.DifficultyAdvanced, 4)
	mid := newCourse("Mid", "web-security", models.DifficultyIntermediate, 4)
	candidates := []*models.Candidate{
		candidateFor(low, 0.3, models.AlgorithmAffinity, "a"),
		candidateFor(high, 0.9, models.AlgorithmSkillGap, "b"),
		candidateFor(mid, 0.6, models.AlgorithmPeer, "c"),
	}

	merged := mergeAndRank(candidates, nil, MaxScoreCombiner{}, models.RecommendationOptions{})

	require.Len(t, merged, 3)
	assert.Equal(t, "High", merged[0].course.Title)
	assert.Equal(t, "Mid", merged[1].course.Title)
	assert.Equal(t, "Low", merged[2].course.Title)
}

func TestMergeAndRank_ExcludesCompletedCourses(t *testing.T) {
	done := newCourse("Done", "cryptography", models.DifficultyAdvanced, 6)
	fresh := newCourse("Fresh", "cryptography", models.DifficultyAdvanced, 6)
	completed := map[uuid.UUID]bool{done.ID: true}
	candidates := []*models.Candidate{
		candidateFor(done, 0.95, models.AlgorithmSkillGap, "high but completed"),
		candidateFor(fresh, 0.5, models.AlgorithmAffinity, "modest"),
	}

	merged := mergeAndRank(candidates, completed, MaxScoreCombiner{}, models.RecommendationOptions{})

	require.Len(t, merged, 1)
	assert.Equal(t, "Fresh", merged[0].course.Title)
}

func TestMergeAndRank_IncludeCompletedKeepsThem(t *testing.T) {
	done := newCourse("Done", "cryptography", models.DifficultyAdvanced, 6)
	completed := map[uuid.UUID]bool{done.ID: true}
	candidates := []*models.Candidate{
		candidateFor(done, 0.95, models.AlgorithmSkillGap, "still relevant"),
	}

	merged := mergeAndRank(candidates, completed, MaxScoreCombiner{},
		models.RecommendationOptions{IncludeCompleted: true})

	require.Len(t, merged, 1)
	assert.Equal(t, "Done", merged[0].course.Title)
}

func TestMergeAndRank_TopNCut(t *testing.T) {
	var candidates []*models.Candidate
	for i := 0; i < 10; i++ {
		course := newCourse("Course", "forensics", models.DifficultyBeginner, 3)
		candidates = append(candidates, candidateFor(course, float64(i)/10, models.AlgorithmAffinity, "x"))
	}

	merged := mergeAndRank(candidates, nil, MaxScoreCombiner{},
		models.RecommendationOptions{MaxRecommendations: 4})

	assert.Len(t, merged, 4)
}

func TestMergeAndRank_FocusAreaFiltersByCategoryOrReason(t *testing.T) {
	netCourse := newCourse("Firewalls", "network-security", models.DifficultyIntermediate, 5)
	webCourse := newCourse("XSS Deep Dive", "web-security", models.DifficultyIntermediate, 5)
	mentioned := newCourse("Incident Response", "operations", models.DifficultyIntermediate, 5)
	candidates := []*models.Candidate{
		candidateFor(netCourse, 0.8, models.AlgorithmSkillGap, "a"),
		candidateFor(webCourse, 0.7, models.AlgorithmSkillGap, "b"),
		candidateFor(mentioned, 0.6, models.AlgorithmSkillGap, "Improve Network-Security skills (current score: 55%)"),
	}

	merged := mergeAndRank(candidates, nil, MaxScoreCombiner{},
		models.RecommendationOptions{FocusArea: "network-security"})

	require.Len(t, merged, 2)
	assert.Equal(t, "Firewalls", merged[0].course.Title)
	assert.Equal(t, "Incident Response", merged[1].course.Title)
}

func TestWeightedSumCombiner_AccumulatesAndCaps(t *testing.T) {
	course := newCourse("Popular", "network-security", models.DifficultyIntermediate, 5)
	candidates := []*models.Candidate{
		candidateFor(course, 0.7, models.AlgorithmSkillGap, "a"),       // weight 1.0
		candidateFor(course, 0.85, models.AlgorithmAIPersonalized, "b"), // weight 1.1
	}

	merged := mergeAndRank(candidates, nil, WeightedSumCombiner{}, models.RecommendationOptions{})

	require.Len(t, merged, 1)
	// 0.7*1.0 + 0.85*1.1 = 1.635, capped at 1.0
	assert.Equal(t, 1.0, merged[0].score)
}

func TestWeightedSumCombiner_OrderingDiffersFromMax(t *testing.T) {
	consensus := newCourse("Consensus", "network-security", models.DifficultyIntermediate, 5)
	loner := newCourse("Loner", "network-security", models.DifficultyIntermediate, 5)
	candidates := []*models.Candidate{
		candidateFor(consensus, 0.4, models.AlgorithmSkillGap, "a"),
		candidateFor(consensus, 0.4, models.AlgorithmAffinity, "b"),
		candidateFor(loner, 0.5, models.AlgorithmPerformance, "c"),
	}

	maxMerged := mergeAndRank(candidates, nil, MaxScoreCombiner{}, models.RecommendationOptions{})
	require.Len(t, maxMerged, 2)
	assert.Equal(t, "Loner", maxMerged[0].course.Title)

	weightedMerged := mergeAndRank(candidates, nil, WeightedSumCombiner{}, models.RecommendationOptions{})
	require.Len(t, weightedMerged, 2)
	// 0.4*1.0 + 0.4*0.8 = 0.72 beats 0.5*1.0
	assert.Equal(t, "Consensus", weightedMerged[0].course.Title)
}

func TestNewCombiner_Selection(t *testing.T) {
	assert.Equal(t, "max", NewCombiner("max").Name())
	assert.Equal(t, "weighted", NewCombiner("weighted").Name())
	assert.Equal(t, "max", NewCombiner("bogus").Name())
}

func TestEnrich_ConfidenceAndStrength(t *testing.T) {
	course := newCourse("Course", "network-security", models.DifficultyIntermediate, 10)

	strong := enrich(&mergedEntry{course: course, score: 0.9, reasons: []string{"r"}}, false)
	assert.Equal(t, 90.0, strong.Confidence)
	assert.Equal(t, models.StrengthStrong, strong.Strength)

	moderate := enrich(&mergedEntry{course: course, score: 0.65}, false)
	assert.Equal(t, models.StrengthModerate, moderate.Strength)

	weak := enrich(&mergedEntry{course: course, score: 0.3}, false)
	assert.Equal(t, models.StrengthWeak, weak.Strength)

	capped := enrich(&mergedEntry{course: course, score: 1.0}, false)
	assert.Equal(t, 99.0, capped.Confidence)
}

func TestEnrich_EstimatedCompletionTime(t *testing.T) {
	course := newCourse("Course", "network-security", models.DifficultyIntermediate, 10)

	firstTimer := enrich(&mergedEntry{course: course, score: 0.5}, false)
	assert.Equal(t, 10, firstTimer.EstimatedHours)

	returning := enrich(&mergedEntry{course: course, score: 0.5}, true)
	assert.Equal(t, 12, returning.EstimatedHours)
}

func TestMergeAndRank_ScoresStayInBounds(t *testing.T) {
	course := newCourse("Course", "network-security", models.DifficultyIntermediate, 5)
	candidates := []*models.Candidate{
		candidateFor(course, 0.95, models.AlgorithmAIPersonalized, "a"),
		candidateFor(course, 0.9, models.AlgorithmSkillGap, "b"),
		candidateFor(course, 0.85, models.AlgorithmPerformance, "c"),
	}

	for _, combiner := range []Combiner{MaxScoreCombiner{}, WeightedSumCombiner{}} {
		merged := mergeAndRank(candidates, nil, combiner, models.RecommendationOptions{})
		require.Len(t, merged, 1)
		assert.GreaterOrEqual(t, merged[0].score, 0.0)
		assert.LessOrEqual(t, merged[0].score, 1.0)

		rec := enrich(merged[0], false)
		assert.GreaterOrEqual(t, rec.Confidence, 0.0)
		assert.LessOrEqual(t, rec.Confidence, 99.0)
	}
}
