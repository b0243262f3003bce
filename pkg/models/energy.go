package models

import "time"

// EnergyPool is a user's regenerating pool of neural charges. Charges gate
// how many new-learning missions may start; review missions are always free.
type EnergyPool struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Current     int       `json:"current" db:"current"` // Invariant: 0 <= Current <= Max
	Max         int       `json:"max" db:"max"`
	LastRegenAt time.Time `json:"last_regen_at" db:"last_regen_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy of the pool.
func (p *EnergyPool) Clone() *EnergyPool {
	out := *p
	return &out
}
