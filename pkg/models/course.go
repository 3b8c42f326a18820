package models

import (
	"time"

	"github.com/google/uuid"
)

// Course difficulty levels, ordered from introductory to expert.
const (
	DifficultyBeginner               = "Beginner"
	DifficultyBeginnerToIntermediate = "Beginner-to-Intermediate"
	DifficultyIntermediate           = "Intermediate"
	DifficultyIntermediateToAdvanced = "Intermediate-to-Advanced"
	DifficultyAdvanced               = "Advanced"
)

// difficultyWeights maps each difficulty level to its position in the
// progression ladder. Unknown difficulties weigh 0 and never match.
var difficultyWeights = map[string]int{
	DifficultyBeginner:               1,
	DifficultyBeginnerToIntermediate: 2,
	DifficultyIntermediate:           3,
	DifficultyIntermediateToAdvanced: 4,
	DifficultyAdvanced:               5,
}

// DifficultyWeight returns the ordinal weight of a difficulty level (1-5),
// or 0 for unrecognized values.
func DifficultyWeight(difficulty string) int {
	return difficultyWeights[difficulty]
}

// CategoryWorkshop is the category used for hands-on foundation courses.
const CategoryWorkshop = "workshop"

// Lesson is one unit of course content.
type Lesson struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

// Course is a catalog entry. Courses are read-mostly: loaded from the record
// store and cached for the process lifetime by the catalog service.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Lessons     []Lesson  `json:"lessons"`
	PriceCents  int64     `json:"price_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// LessonCount returns the number of lessons in the course.
func (c *Course) LessonCount() int {
	return len(c.Lessons)
}
