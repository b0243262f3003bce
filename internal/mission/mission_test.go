package mission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/verdania/internal/energy"
	"github.com/example/verdania/internal/fog"
	"github.com/example/verdania/pkg/models"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	director *Director
	budget   *energy.Budget
	store    *fog.MemoryStore
}

func newFixture(t *testing.T, charges int) *fixture {
	t.Helper()
	pool := &models.EnergyPool{Current: charges, Max: 6, LastRegenAt: t0}
	budget := energy.NewBudget(energy.NewMemoryPoolStore(pool), 2*time.Hour)
	store := fog.NewMemoryStore()
	scheduler := fog.NewReviewScheduler(store)
	return &fixture{
		director: NewDirector(42, budget, scheduler, NewMemoryAnswerLog()),
		budget:   budget,
		store:    store,
	}
}

func TestEnergyCost(t *testing.T) {
	assert.Equal(t, 1, Learn.EnergyCost())
	assert.Equal(t, 2, Bridge.EnergyCost())
	assert.Equal(t, 0, Review.EnergyCost())
}

func TestStartLearnSpendsOneCharge(t *testing.T) {
	f := newFixture(t, 3)

	m, err := f.director.Start(Learn, []string{"verdania_s1_t1", "verdania_s1_t2"}, t0)
	require.NoError(t, err)
	assert.Equal(t, Learn, m.Kind)
	assert.Equal(t, []string{"verdania_s1_t1", "verdania_s1_t2"}, m.Tiles)
	assert.NotEmpty(t, m.ID)

	pool, err := f.budget.Tick(t0)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Current)
}

func TestStartBridgeSpendsTwoCharges(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.director.Start(Bridge, []string{"verdania_s2_t1"}, t0)
	require.NoError(t, err)

	pool, err := f.budget.Tick(t0)
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Current)
}

func TestStartInsufficientEnergy(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.director.Start(Learn, []string{"verdania_s1_t1"}, t0)
	assert.ErrorIs(t, err, energy.ErrInsufficient)

	// The failed start left the pool untouched
	pool, err := f.budget.Tick(t0)
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Current)
}

func TestStartReviewIsFreeAndDrawsFromFogQueue(t *testing.T) {
	f := newFixture(t, 0)

	// Seed an overdue low-accuracy record
	reviewedAt := t0.AddDate(0, 0, -10)
	rec := fog.NewRecord("verdania_s1_t3", reviewedAt)
	rec.Repetitions = 2
	rec.IntervalDays = 7
	rec.RecentAccuracy = 0.5
	rec.LastReviewedAt = &reviewedAt
	rec.DueAt = reviewedAt.AddDate(0, 0, 7)
	require.NoError(t, f.store.Save(rec))

	m, err := f.director.Start(Review, nil, t0)
	require.NoError(t, err)
	assert.Equal(t, []string{"verdania_s1_t3"}, m.Tiles)
}

func TestStartValidation(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.director.Start(Learn, nil, t0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.director.Start(Kind("conquer"), []string{"t"}, t0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitAnswerDeduplicatesByRequestID(t *testing.T) {
	f := newFixture(t, 3)

	m, err := f.director.Start(Learn, []string{"verdania_s1_t1"}, t0)
	require.NoError(t, err)

	rec, applied, err := f.director.SubmitAnswer(m, "req-1", "verdania_s1_t1", true, nil, t0)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1, rec.Repetitions)

	// A retried delivery of the same answer must not advance the record,
	// and must report that nothing was applied
	rec, applied, err = f.director.SubmitAnswer(m, "req-1", "verdania_s1_t1", true, nil, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 1, rec.Repetitions)

	// A new request id is a genuine second answer
	rec, applied, err = f.director.SubmitAnswer(m, "req-2", "verdania_s1_t1", true, nil, t0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 2, rec.Repetitions)
}

func TestSubmitAnswerGeneratesRequestID(t *testing.T) {
	f := newFixture(t, 3)

	m, err := f.director.Start(Learn, []string{"verdania_s1_t1"}, t0)
	require.NoError(t, err)

	rec, applied, err := f.director.SubmitAnswer(m, "", "verdania_s1_t1", true, nil, t0)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1, rec.Repetitions)
}

func TestDueCount(t *testing.T) {
	f := newFixture(t, 3)
	now := t0

	for i, accuracy := range []float64{0.5, 0.5, 0.85} {
		reviewedAt := now.AddDate(0, 0, -9)
		rec := fog.NewRecord(string(rune('a'+i)), reviewedAt)
		rec.Repetitions = 2
		rec.IntervalDays = 7
		rec.RecentAccuracy = accuracy
		rec.LastReviewedAt = &reviewedAt
		rec.DueAt = reviewedAt.AddDate(0, 0, 7)
		require.NoError(t, f.store.Save(rec))
	}

	critical, total, err := f.director.DueCount(now)
	require.NoError(t, err)
	assert.Equal(t, 2, critical)
	assert.Equal(t, 3, total)
}
