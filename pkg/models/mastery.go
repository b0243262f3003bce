package models

import "time"

// SM-2 seed values for a fresh mastery record
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// MasteryRecord tracks one user's retention state for a single tile.
// The record is created on first exposure and mutated only by the fog
// scheduler; it is never deleted by the scheduler itself.
type MasteryRecord struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	UnitID         string     `json:"unit_id" db:"unit_id"`
	Repetitions    int        `json:"repetitions" db:"repetitions"`         // Consecutive correct reviews since the last failure
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`         // SM-2 EF parameter, never below MinEaseFactor
	IntervalDays   float64    `json:"interval_days" db:"interval_days"`     // Current spacing between reviews in days
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"` // nil before the first review
	DueAt          time.Time  `json:"due_at" db:"due_at"`
	RecentAccuracy float64    `json:"recent_accuracy" db:"recent_accuracy"` // Rolling accuracy in [0,1]
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy of the record. Pointer fields are copied by value.
func (m *MasteryRecord) Clone() *MasteryRecord {
	out := *m
	if m.LastReviewedAt != nil {
		v := *m.LastReviewedAt
		out.LastReviewedAt = &v
	}
	return &out
}
