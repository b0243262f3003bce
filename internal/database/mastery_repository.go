package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/verdania/pkg/models"
)

// MasteryRepository handles database operations for one user's mastery
// records. It implements fog.RecordStore, so a fog.ReviewScheduler can be
// built directly on top of it.
type MasteryRepository struct {
	userID int64
}

// NewMasteryRepository creates a repository scoped to one user
func NewMasteryRepository(userID int64) *MasteryRepository {
	return &MasteryRepository{userID: userID}
}

// Load returns the record for a unit, or (nil, nil) when none exists yet
func (r *MasteryRepository) Load(unitID string) (*models.MasteryRecord, error) {
	var rec models.MasteryRecord
	err := DB.Get(&rec,
		"SELECT * FROM mastery_records WHERE user_id = $1 AND unit_id = $2",
		r.userID, unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mastery record: %v", err)
	}
	return &rec, nil
}

// Save inserts or updates the record for the unit
func (r *MasteryRepository) Save(rec *models.MasteryRecord) error {
	rec.UserID = r.userID

	var existingID int64
	err := DB.QueryRow(
		"SELECT id FROM mastery_records WHERE user_id = $1 AND unit_id = $2",
		r.userID, rec.UnitID).Scan(&existingID)

	if err == nil {
		rec.ID = existingID
		_, err = DB.Exec(`
			UPDATE mastery_records SET
				repetitions = $1,
				ease_factor = $2,
				interval_days = $3,
				last_reviewed_at = $4,
				due_at = $5,
				recent_accuracy = $6,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $7`,
			rec.Repetitions,
			rec.EaseFactor,
			rec.IntervalDays,
			rec.LastReviewedAt,
			rec.DueAt,
			rec.RecentAccuracy,
			rec.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update mastery record: %v", err)
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up mastery record: %v", err)
	}

	result, err := DB.Exec(`
		INSERT INTO mastery_records (
			user_id, unit_id, repetitions, ease_factor, interval_days,
			last_reviewed_at, due_at, recent_accuracy
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.UserID,
		rec.UnitID,
		rec.Repetitions,
		rec.EaseFactor,
		rec.IntervalDays,
		rec.LastReviewedAt,
		rec.DueAt,
		rec.RecentAccuracy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert mastery record: %v", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// All returns every mastery record for the user
func (r *MasteryRepository) All() ([]*models.MasteryRecord, error) {
	var recs []*models.MasteryRecord
	err := DB.Select(&recs,
		"SELECT * FROM mastery_records WHERE user_id = $1 ORDER BY unit_id ASC",
		r.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mastery records: %v", err)
	}
	return recs, nil
}
