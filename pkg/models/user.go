package models

import (
	"time"

	"github.com/google/uuid"
)

// User experience levels derived from completed-course count.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// DeriveUserLevel maps a completed-course count to an experience level.
// 0 completed -> Beginner, 1-2 -> Intermediate, 3+ -> Advanced.
func DeriveUserLevel(completedCourses int) string {
	switch {
	case completedCourses >= 3:
		return LevelAdvanced
	case completedCourses >= 1:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// UserProfile holds the account fields the recommendation engine reads.
type UserProfile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
