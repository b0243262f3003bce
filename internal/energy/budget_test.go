package energy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/verdania/pkg/models"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newBudget(current, max int, regen time.Duration) *Budget {
	pool := &models.EnergyPool{Current: current, Max: max, LastRegenAt: t0}
	return NewBudget(NewMemoryPoolStore(pool), regen)
}

func TestTickRegeneratesWholeCharges(t *testing.T) {
	b := newBudget(2, 6, 2*time.Hour)

	// 5h elapsed at 2h per charge: exactly 2 charges, and the regen clock
	// advances by exactly 4h so the spare hour keeps counting
	pool, err := b.Tick(t0.Add(5 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 4, pool.Current)
	assert.Equal(t, t0.Add(4*time.Hour), pool.LastRegenAt)

	// One more hour completes the next 2h window
	pool, err = b.Tick(t0.Add(6 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 5, pool.Current)
	assert.Equal(t, t0.Add(6*time.Hour), pool.LastRegenAt)
}

func TestTickBelowIntervalIsNoop(t *testing.T) {
	b := newBudget(2, 6, 2*time.Hour)

	pool, err := b.Tick(t0.Add(119 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Current)
	assert.Equal(t, t0, pool.LastRegenAt)
}

func TestTickClampsAtMax(t *testing.T) {
	b := newBudget(5, 6, time.Hour)

	pool, err := b.Tick(t0.Add(48 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 6, pool.Current)
	// The clock still advances in whole multiples while full
	assert.Equal(t, t0.Add(48*time.Hour), pool.LastRegenAt)
}

func TestTickMissingPool(t *testing.T) {
	b := NewBudget(NewMemoryPoolStore(nil), time.Hour)

	_, err := b.Tick(t0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCanAfford(t *testing.T) {
	b := newBudget(1, 6, 2*time.Hour)

	ok, err := b.CanAfford(1, t0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.CanAfford(2, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	// Review missions cost nothing and are always affordable
	empty := newBudget(0, 6, 2*time.Hour)
	ok, err = empty.CanAfford(0, t0)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = b.CanAfford(-1, t0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSpendDeducts(t *testing.T) {
	b := newBudget(3, 6, 2*time.Hour)

	res, err := b.Spend(2, t0)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Pool.Current)
}

func TestSpendAtomicOnInsufficient(t *testing.T) {
	b := newBudget(1, 6, 2*time.Hour)

	res, err := b.Spend(2, t0)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 1, res.Pool.Current, "failed spend must not mutate the pool")

	// A later successful spend still sees the untouched balance
	res, err = b.Spend(1, t0)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 0, res.Pool.Current)

	_, err = b.Spend(-1, t0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSpendAppliesRegenFirst(t *testing.T) {
	b := newBudget(0, 6, 2*time.Hour)

	// Unaffordable at t0, affordable after regeneration
	res, err := b.Spend(1, t0)
	require.NoError(t, err)
	assert.False(t, res.OK)

	res, err = b.Spend(1, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 0, res.Pool.Current)
}

func TestGrantClampsAndKeepsRegenClock(t *testing.T) {
	b := newBudget(5, 6, 2*time.Hour)

	pool, err := b.Grant(3, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 6, pool.Current)
	// Purchased charges never penalize natural regeneration
	assert.Equal(t, t0, pool.LastRegenAt)

	_, err = b.Grant(-1, t0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpgradeCapacity(t *testing.T) {
	b := newBudget(4, 6, 2*time.Hour)

	pool, err := b.UpgradeCapacity(8, t0)
	require.NoError(t, err)
	assert.Equal(t, 8, pool.Max)
	assert.Equal(t, 4, pool.Current)

	// Capacity is monotonically non-decreasing
	_, err = b.UpgradeCapacity(6, t0)
	assert.ErrorIs(t, err, ErrValidation)

	// Same max is a no-op, not an error
	pool, err = b.UpgradeCapacity(8, t0)
	require.NoError(t, err)
	assert.Equal(t, 8, pool.Max)
}

func TestNewPoolStartsFull(t *testing.T) {
	pool := NewPool(6, t0)
	assert.Equal(t, 6, pool.Current)
	assert.Equal(t, 6, pool.Max)
	assert.Equal(t, t0, pool.LastRegenAt)
}
