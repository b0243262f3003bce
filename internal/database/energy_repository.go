package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/verdania/pkg/models"
)

// EnergyRepository handles database operations for one user's energy pool.
// It implements energy.PoolStore.
type EnergyRepository struct {
	userID int64
}

// NewEnergyRepository creates a repository scoped to one user
func NewEnergyRepository(userID int64) *EnergyRepository {
	return &EnergyRepository{userID: userID}
}

// Load returns the user's pool, or (nil, nil) when none exists yet
func (r *EnergyRepository) Load() (*models.EnergyPool, error) {
	var pool models.EnergyPool
	err := DB.Get(&pool, "SELECT * FROM energy_pools WHERE user_id = $1", r.userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get energy pool: %v", err)
	}
	return &pool, nil
}

// Save inserts or updates the user's pool
func (r *EnergyRepository) Save(pool *models.EnergyPool) error {
	pool.UserID = r.userID

	var exists int
	err := DB.QueryRow("SELECT COUNT(*) FROM energy_pools WHERE user_id = $1", r.userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up energy pool: %v", err)
	}

	if exists > 0 {
		_, err = DB.Exec(`
			UPDATE energy_pools SET
				current = $1,
				max = $2,
				last_regen_at = $3,
				updated_at = CURRENT_TIMESTAMP
			WHERE user_id = $4`,
			pool.Current, pool.Max, pool.LastRegenAt, r.userID)
		if err != nil {
			return fmt.Errorf("failed to update energy pool: %v", err)
		}
		return nil
	}

	_, err = DB.Exec(`
		INSERT INTO energy_pools (user_id, current, max, last_regen_at)
		VALUES ($1, $2, $3, $4)`,
		r.userID, pool.Current, pool.Max, pool.LastRegenAt)
	if err != nil {
		return fmt.Errorf("failed to insert energy pool: %v", err)
	}
	return nil
}

// EnsurePool creates a full pool for the user if one doesn't exist yet and
// returns it. Called at onboarding.
func (r *EnergyRepository) EnsurePool(max int, now time.Time) (*models.EnergyPool, error) {
	pool, err := r.Load()
	if err != nil {
		return nil, err
	}
	if pool != nil {
		return pool, nil
	}
	pool = &models.EnergyPool{
		UserID:      r.userID,
		Current:     max,
		Max:         max,
		LastRegenAt: now,
		UpdatedAt:   now,
	}
	if err := r.Save(pool); err != nil {
		return nil, err
	}
	return pool, nil
}
