package fog

import (
	"testing"
	"time"

	"github.com/example/verdania/pkg/models"
)

// reviewedRecord builds a record reviewed at the given time with a 7-day
// interval unless overridden.
func reviewedRecord(accuracy, intervalDays float64, reviewedAt time.Time) *models.MasteryRecord {
	rec := NewRecord("tile", reviewedAt)
	rec.Repetitions = 3
	rec.IntervalDays = intervalDays
	rec.RecentAccuracy = accuracy
	rec.LastReviewedAt = &reviewedAt
	rec.DueAt = reviewedAt.Add(daysToDuration(intervalDays))
	return rec
}

func TestTierFor(t *testing.T) {
	reviewedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		accuracy float64
		interval float64
		elapsed  time.Duration
		want     DecayTier
	}{
		// High accuracy stays clear for the whole interval; at the exact
		// boundary the fog "returns" but the label is still CLEAR
		{"high accuracy before due", 0.96, 7, 6 * day, TierClear},
		{"high accuracy exactly due", 0.96, 7, 7 * day, TierClear},
		{"high accuracy long overdue", 0.96, 7, 20 * day, TierClear},

		// 0.80..0.95 bucket: fog returns at 75% of the interval
		{"stirring before threshold", 0.85, 7, 5*day + 5*time.Hour, TierClear},
		{"stirring at threshold", 0.85, 7, 5*day + 6*time.Hour, TierStirring}, // 5.25 days
		{"stirring after threshold", 0.85, 7, 6 * day, TierStirring},

		// 0.60..0.80 bucket: fog returns at half the interval
		{"reclaiming before threshold", 0.70, 8, 3 * day, TierClear},
		{"reclaiming at threshold", 0.70, 8, 4 * day, TierReclaiming},

		// Below 0.60: a quarter of the interval, floored at one day
		{"critical before threshold", 0.50, 8, day + 23*time.Hour, TierClear},
		{"critical at threshold", 0.50, 8, 2 * day, TierCritical},
		{"critical fully elapsed", 0.50, 7, 7 * day, TierCritical},
		{"critical floor one day", 0.50, 2, 23 * time.Hour, TierClear},
		{"critical floor one day reached", 0.50, 2, day, TierCritical},

		// Bucket edges sit at >=
		{"accuracy at clear edge", 0.95, 7, 6 * day, TierClear},
		{"accuracy below clear edge", 0.94, 7, 6 * day, TierStirring},
		{"accuracy at stirring edge", 0.80, 7, 6 * day, TierStirring},
		{"accuracy at reclaiming edge", 0.60, 7, 6 * day, TierReclaiming},
		{"accuracy below reclaiming edge", 0.59, 7, 6 * day, TierCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := reviewedRecord(tt.accuracy, tt.interval, reviewedAt)
			got := TierFor(rec, reviewedAt.Add(tt.elapsed))
			if got != tt.want {
				t.Errorf("TierFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierForNeverReviewed(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := NewRecord("tile", created)

	// A brand-new record anchors at its creation due date: clear at first,
	// critical after a day untouched
	if got := TierFor(rec, created); got != TierClear {
		t.Errorf("TierFor(created) = %v, want CLEAR", got)
	}
	if got := TierFor(rec, created.Add(day)); got != TierCritical {
		t.Errorf("TierFor(created+1d) = %v, want CRITICAL", got)
	}
}

func TestTierString(t *testing.T) {
	tests := []struct {
		tier DecayTier
		want string
	}{
		{TierClear, "CLEAR"},
		{TierStirring, "STIRRING"},
		{TierReclaiming, "RECLAIMING"},
		{TierCritical, "CRITICAL"},
	}
	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
