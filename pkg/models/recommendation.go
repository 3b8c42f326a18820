package models

// Algorithm tags attached to recommendation candidates.
const (
	AlgorithmSkillGap       = "skill-based"
	AlgorithmPerformance    = "performance-based"
	AlgorithmDifficulty     = "difficulty-progression"
	AlgorithmAffinity       = "category-affinity"
	AlgorithmPeer           = "peer-collaborative"
	AlgorithmAIPersonalized = "ai-personalized"
)

// Candidate urgency levels.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Recommendation strength labels derived from the merged score.
const (
	StrengthStrong   = "Strong"
	StrengthModerate = "Moderate"
	StrengthWeak     = "Weak"
)

// Candidate is one algorithm's vote for a course. Scores are always in [0, 1].
// Weight is the per-algorithm multiplier used by the weighted-sum combiner;
// the default max-score combiner ignores it.
type Candidate struct {
	Course    *Course  `json:"course"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
	Urgency   string   `json:"urgency"`
	Algorithm string   `json:"algorithm"`
	Weight    float64  `json:"weight"`
}

// Recommendation is a merged, enriched entry in the final response.
// Constructed fresh on every request; never persisted.
type Recommendation struct {
	Course   *Course  `json:"course"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
	Urgency  string   `json:"urgency"`
	// Confidence is min(score*100, 99).
	Confidence float64 `json:"confidence"`
	// Strength is Strong (score >= 0.8), Moderate (>= 0.6), or Weak.
	Strength string `json:"recommendation_strength"`
	// EstimatedHours is lesson count x 1.2 for returning users, x 1.0 for
	// first-time users, rounded.
	EstimatedHours int `json:"estimated_completion_time"`
}

// Summary aggregates request-level statistics for the caller.
type Summary struct {
	TotalAnalyzed     int    `json:"total_analyzed"`
	UserLevel         string `json:"user_level"`
	StrongestCategory string `json:"strongest_category"`
	NextMilestone     string `json:"next_milestone"`
}

// RecommendationResponse is the only shape external callers ever observe.
// Failures anywhere in the pipeline surface as Success=false with a message,
// never as a raw error.
type RecommendationResponse struct {
	Success         bool              `json:"success"`
	Recommendations []*Recommendation `json:"recommendations,omitempty"`
	Summary         *Summary          `json:"summary,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// RecommendationOptions tune a single recommendation request.
type RecommendationOptions struct {
	FocusArea          string
	IncludeCompleted   bool
	MaxRecommendations int
}
