package fog

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/example/verdania/pkg/models"
)

// accuracyAlpha is the EMA weight given to the newest accuracy observation.
const accuracyAlpha = 0.3

// maxIntervalDays caps how far out a review can be pushed. Without a ceiling
// the interval compounds geometrically and eventually exceeds what a
// time.Duration can represent.
const maxIntervalDays = 365

// ReviewScheduler applies the spaced-repetition update rule to one user's
// mastery records and answers "what's due" queries. All mutation of a record
// goes through RecordAnswer; the scheduler serializes its own methods with a
// mutex so concurrent callers cannot produce lost updates.
type ReviewScheduler struct {
	mu    sync.Mutex
	store RecordStore
}

// NewReviewScheduler creates a scheduler over the given record store.
func NewReviewScheduler(store RecordStore) *ReviewScheduler {
	return &ReviewScheduler{store: store}
}

// Answer is one graded response for a unit.
type Answer struct {
	UnitID  string
	Correct bool
	// Accuracy optionally carries session-level accuracy for the unit in
	// [0,1], for callers that ask several questions per unit per mission.
	// When nil it defaults to 1.0 if correct, 0.0 otherwise.
	Accuracy *float64
}

// NewRecord creates a fresh mastery record for a unit first seen at now.
// The record is immediately due.
func NewRecord(unitID string, now time.Time) *models.MasteryRecord {
	return &models.MasteryRecord{
		UnitID:     unitID,
		EaseFactor: models.DefaultEaseFactor,
		DueAt:      now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// RecordAnswer applies one answer to the unit's mastery record and returns
// the updated record. An unknown unit id gets a fresh record (first
// exposure). Invalid input is rejected before any state changes, so a failed
// call never leaves a partial mutation behind.
func (s *ReviewScheduler) RecordAnswer(ans Answer, now time.Time) (*models.MasteryRecord, error) {
	if ans.UnitID == "" {
		return nil, fmt.Errorf("%w: empty unit id", ErrValidation)
	}
	hint := 0.0
	if ans.Correct {
		hint = 1.0
	}
	if ans.Accuracy != nil {
		hint = *ans.Accuracy
		if math.IsNaN(hint) || hint < 0 || hint > 1 {
			return nil, fmt.Errorf("%w: accuracy hint %v outside [0,1]", ErrValidation, hint)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Load(ans.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery record: %w", err)
	}
	first := rec == nil
	if first {
		rec = NewRecord(ans.UnitID, now)
	}

	// Rolling accuracy: the first exposure takes the observation as-is,
	// later ones blend it in as an exponential moving average.
	if first {
		rec.RecentAccuracy = hint
	} else {
		rec.RecentAccuracy = (1-accuracyAlpha)*rec.RecentAccuracy + accuracyAlpha*hint
	}

	if ans.Correct {
		rec.Repetitions++
		switch rec.Repetitions {
		case 1:
			rec.IntervalDays = 1
		case 2:
			rec.IntervalDays = 3
		default:
			rec.IntervalDays = math.Round(rec.IntervalDays * rec.EaseFactor)
		}
		// Classic SM-2 ease adjustment, with rolling accuracy standing in
		// for the self-rated 0-5 quality.
		q := rec.RecentAccuracy * 5
		rec.EaseFactor += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	} else {
		rec.Repetitions = 0
		rec.IntervalDays = 1
		rec.EaseFactor -= 0.2
	}
	// The floor applies on both branches: the correct-branch formula can
	// also push the ease factor below 1.3 at low accuracy.
	if rec.EaseFactor < models.MinEaseFactor {
		rec.EaseFactor = models.MinEaseFactor
	}
	// Guard against a rounded-to-zero interval making the unit re-due at
	// the same instant.
	if rec.Repetitions > 0 && rec.IntervalDays < 1 {
		rec.IntervalDays = 1
	}
	if rec.IntervalDays > maxIntervalDays {
		rec.IntervalDays = maxIntervalDays
	}

	reviewedAt := now
	rec.LastReviewedAt = &reviewedAt
	rec.DueAt = now.Add(daysToDuration(rec.IntervalDays))
	rec.UpdatedAt = now

	if err := s.store.Save(rec); err != nil {
		return nil, fmt.Errorf("failed to save mastery record: %w", err)
	}
	return rec, nil
}

// Record returns the mastery record for a unit without creating one.
// Returns (nil, nil) when the unit was never seen.
func (s *ReviewScheduler) Record(unitID string) (*models.MasteryRecord, error) {
	if unitID == "" {
		return nil, fmt.Errorf("%w: empty unit id", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(unitID)
}

// DueUnit is one entry in the review queue.
type DueUnit struct {
	UnitID string
	Tier   DecayTier
	DueAt  time.Time
}

// ListDue returns the units whose fog has returned, most urgent first:
// CRITICAL before RECLAIMING before STIRRING before clear-but-overdue, ties
// broken by the earliest due date. Units that are still clear and whose fog
// has not yet returned are never included.
func (s *ReviewScheduler) ListDue(now time.Time) ([]DueUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.store.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list mastery records: %w", err)
	}

	var due []DueUnit
	for _, rec := range recs {
		label, returnAfter := fogProfile(rec)
		if now.Sub(fogAnchor(rec)) < returnAfter {
			continue
		}
		due = append(due, DueUnit{UnitID: rec.UnitID, Tier: label, DueAt: rec.DueAt})
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].Tier != due[j].Tier {
			return due[i].Tier > due[j].Tier
		}
		return due[i].DueAt.Before(due[j].DueAt)
	})
	return due, nil
}
