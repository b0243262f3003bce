package models

import "time"

// AnswerEvent is one graded answer submission, keyed by a caller-supplied
// request id. The fog scheduler's state transition is not idempotent, so
// retried submissions are de-duplicated against this log before being applied.
type AnswerEvent struct {
	RequestID string    `json:"request_id" db:"request_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	MissionID string    `json:"mission_id" db:"mission_id"`
	UnitID    string    `json:"unit_id" db:"unit_id"`
	Correct   bool      `json:"correct" db:"correct"`
	Accuracy  float64   `json:"accuracy" db:"accuracy"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
