package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord tracks a user's advancement through one course.
// One record exists per (user, course) pair; created on enrollment and
// updated as lessons complete.
type ProgressRecord struct {
	UserID    uuid.UUID `json:"user_id"`
	CourseID  uuid.UUID `json:"course_id"`
	Completed bool      `json:"completed"`
	// Progress is a 0-100 completion percentage.
	Progress  float64   `json:"progress"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PeerCompletion is one completed course observed in another user's history.
type PeerCompletion struct {
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`
}
