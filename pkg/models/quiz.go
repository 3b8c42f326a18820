package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt is one completed quiz. Attempts are append-only.
type QuizAttempt struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Category string    `json:"category"`
	// Percentage is the 0-100 quiz score.
	Percentage  float64   `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}
