package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// AlgorithmWeights holds the per-algorithm multipliers applied by the
// weighted-sum combiner. The max-score combiner ignores them, but every
// candidate still carries its weight so callers can switch combiners.
type AlgorithmWeights struct {
	SkillGap       float64 `yaml:"skill_gap"`
	Performance    float64 `yaml:"performance"`
	Difficulty     float64 `yaml:"difficulty"`
	Affinity       float64 `yaml:"affinity"`
	Peer           float64 `yaml:"peer"`
	AIPersonalized float64 `yaml:"ai_personalized"`
}

// DefaultAlgorithmWeights returns the standard multipliers.
func DefaultAlgorithmWeights() AlgorithmWeights {
	return AlgorithmWeights{
		SkillGap:       1.0,
		Performance:    1.0,
		Difficulty:     0.9,
		Affinity:       0.8,
		Peer:           0.7,
		AIPersonalized: 1.1,
	}
}

// LoadAlgorithmWeights reads weight overrides from a YAML file. An empty
// path returns the defaults. Fields omitted from the file keep their
// default values.
func LoadAlgorithmWeights(path string) (AlgorithmWeights, error) {
	weights := DefaultAlgorithmWeights()
	if path == "" {
		return weights, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return weights, fmt.Errorf("failed to read weights file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &weights); err != nil {
		return weights, fmt.Errorf("failed to parse weights file: %w", err)
	}

	return weights, nil
}

// For returns the multiplier for an algorithm tag, defaulting to 1.0 for
// unrecognized tags.
func (w AlgorithmWeights) For(algorithm string) float64 {
	switch algorithm {
	case models.AlgorithmSkillGap:
		return w.SkillGap
	case models.AlgorithmPerformance:
		return w.Performance
	case models.AlgorithmDifficulty:
		return w.Difficulty
	case models.AlgorithmAffinity:
		return w.Affinity
	case models.AlgorithmPeer:
		return w.Peer
	case models.AlgorithmAIPersonalized:
		return w.AIPersonalized
	default:
		return 1.0
	}
}
