package database

import (
	"fmt"

	"github.com/example/verdania/pkg/models"
)

// AnswerEventRepository persists the answer de-duplication log for one user.
// It implements mission.AnswerLog.
type AnswerEventRepository struct {
	userID int64
}

// NewAnswerEventRepository creates a repository scoped to one user
func NewAnswerEventRepository(userID int64) *AnswerEventRepository {
	return &AnswerEventRepository{userID: userID}
}

// Seen reports whether an event with this request id was recorded before
func (r *AnswerEventRepository) Seen(requestID string) (bool, error) {
	var count int
	err := DB.Get(&count,
		"SELECT COUNT(*) FROM answer_events WHERE request_id = $1", requestID)
	if err != nil {
		return false, fmt.Errorf("failed to check answer event: %v", err)
	}
	return count > 0, nil
}

// Record stores the event
func (r *AnswerEventRepository) Record(event *models.AnswerEvent) error {
	_, err := DB.Exec(`
		INSERT INTO answer_events (request_id, user_id, mission_id, unit_id, correct, accuracy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.RequestID, r.userID, event.MissionID, event.UnitID,
		event.Correct, event.Accuracy, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record answer event: %v", err)
	}
	return nil
}
