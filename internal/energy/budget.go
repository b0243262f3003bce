package energy

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/verdania/pkg/models"
)

// Default pool settings, overridable through the environment in main
const (
	DefaultMax           = 6
	DefaultRegenInterval = 2 * time.Hour
)

// PoolStore is the persistence hook point for one user's energy pool.
type PoolStore interface {
	Load() (*models.EnergyPool, error)
	Save(pool *models.EnergyPool) error
}

// MemoryPoolStore holds a single pool in memory, for tests and tooling.
type MemoryPoolStore struct {
	pool *models.EnergyPool
}

// NewMemoryPoolStore creates a store seeded with the given pool. A nil pool
// means the user was never onboarded.
func NewMemoryPoolStore(pool *models.EnergyPool) *MemoryPoolStore {
	s := &MemoryPoolStore{}
	if pool != nil {
		s.pool = pool.Clone()
	}
	return s
}

// Load returns a copy of the stored pool.
func (s *MemoryPoolStore) Load() (*models.EnergyPool, error) {
	if s.pool == nil {
		return nil, nil
	}
	return s.pool.Clone(), nil
}

// Save replaces the stored pool.
func (s *MemoryPoolStore) Save(pool *models.EnergyPool) error {
	s.pool = pool.Clone()
	return nil
}

// NewPool creates a full pool, as handed to a user at onboarding.
func NewPool(max int, now time.Time) *models.EnergyPool {
	return &models.EnergyPool{
		Current:     max,
		Max:         max,
		LastRegenAt: now,
		UpdatedAt:   now,
	}
}

// Budget gates new-learning missions on a regenerating charge pool. Like the
// fog scheduler it is a single-writer state machine for one user; its methods
// are serialized internally.
type Budget struct {
	mu            sync.Mutex
	store         PoolStore
	regenInterval time.Duration
}

// NewBudget creates a budget over the given pool store. A non-positive regen
// interval falls back to the default.
func NewBudget(store PoolStore, regenInterval time.Duration) *Budget {
	if regenInterval <= 0 {
		regenInterval = DefaultRegenInterval
	}
	return &Budget{store: store, regenInterval: regenInterval}
}

// Tick applies regeneration accrued up to now and returns the pool.
func (b *Budget) Tick(now time.Time) (*models.EnergyPool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tick(now)
}

// tick loads the pool, folds in whole regenerated charges and persists the
// result if anything changed. Callers hold b.mu.
func (b *Budget) tick(now time.Time) (*models.EnergyPool, error) {
	pool, err := b.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load energy pool: %w", err)
	}
	if pool == nil {
		return nil, ErrNotFound
	}

	elapsed := now.Sub(pool.LastRegenAt)
	charges := int(elapsed / b.regenInterval)
	if charges <= 0 {
		return pool, nil
	}

	pool.Current += charges
	if pool.Current > pool.Max {
		pool.Current = pool.Max
	}
	// Advance by exact multiples of the interval rather than resetting to
	// now, so partial progress toward the next charge carries over.
	pool.LastRegenAt = pool.LastRegenAt.Add(time.Duration(charges) * b.regenInterval)
	pool.UpdatedAt = now

	if err := b.store.Save(pool); err != nil {
		return nil, fmt.Errorf("failed to save energy pool: %w", err)
	}
	return pool, nil
}

// CanAfford reports whether the pool holds at least cost charges after
// regeneration. Review missions pass cost 0 and are always affordable.
func (b *Budget) CanAfford(cost int, now time.Time) (bool, error) {
	if cost < 0 {
		return false, fmt.Errorf("%w: negative cost %d", ErrValidation, cost)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	pool, err := b.tick(now)
	if err != nil {
		return false, err
	}
	return pool.Current >= cost, nil
}

// SpendResult reports the outcome of a spend attempt. OK false means the
// pool could not cover the cost; the pool is returned unchanged in that case.
type SpendResult struct {
	OK   bool
	Pool *models.EnergyPool
}

// Spend deducts cost charges after regeneration. The deduction is atomic:
// when the pool cannot cover the cost nothing is mutated and OK is false.
func (b *Budget) Spend(cost int, now time.Time) (SpendResult, error) {
	if cost < 0 {
		return SpendResult{}, fmt.Errorf("%w: negative cost %d", ErrValidation, cost)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	pool, err := b.tick(now)
	if err != nil {
		return SpendResult{}, err
	}
	if pool.Current < cost {
		return SpendResult{OK: false, Pool: pool}, nil
	}
	pool.Current -= cost
	pool.UpdatedAt = now
	if err := b.store.Save(pool); err != nil {
		return SpendResult{}, fmt.Errorf("failed to save energy pool: %w", err)
	}
	return SpendResult{OK: true, Pool: pool}, nil
}

// Grant adds charges from an out-of-band source (a crystal refill), clamped
// to the pool maximum. The regen clock is left untouched so purchased
// charges never penalize natural regeneration.
func (b *Budget) Grant(amount int, now time.Time) (*models.EnergyPool, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: negative grant %d", ErrValidation, amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	pool, err := b.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load energy pool: %w", err)
	}
	if pool == nil {
		return nil, ErrNotFound
	}
	pool.Current += amount
	if pool.Current > pool.Max {
		pool.Current = pool.Max
	}
	pool.UpdatedAt = now
	if err := b.store.Save(pool); err != nil {
		return nil, fmt.Errorf("failed to save energy pool: %w", err)
	}
	return pool, nil
}

// UpgradeCapacity raises the pool maximum. Capacity is monotonically
// non-decreasing by contract; attempting to shrink it is a validation error.
func (b *Budget) UpgradeCapacity(newMax int, now time.Time) (*models.EnergyPool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool, err := b.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load energy pool: %w", err)
	}
	if pool == nil {
		return nil, ErrNotFound
	}
	if newMax < pool.Max {
		return nil, fmt.Errorf("%w: capacity cannot shrink from %d to %d", ErrValidation, pool.Max, newMax)
	}
	pool.Max = newMax
	pool.UpdatedAt = now
	if err := b.store.Save(pool); err != nil {
		return nil, fmt.Errorf("failed to save energy pool: %w", err)
	}
	return pool, nil
}
