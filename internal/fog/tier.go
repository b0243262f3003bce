package fog

import (
	"time"

	"github.com/example/verdania/pkg/models"
)

// DecayTier buckets how urgently a tile needs review. Higher values are
// more urgent. In the game this surfaces as fog creeping back over a tile.
type DecayTier int

const (
	TierClear DecayTier = iota
	TierStirring
	TierReclaiming
	TierCritical
)

// String returns the tier name as used in the client protocol.
func (t DecayTier) String() string {
	switch t {
	case TierStirring:
		return "STIRRING"
	case TierReclaiming:
		return "RECLAIMING"
	case TierCritical:
		return "CRITICAL"
	default:
		return "CLEAR"
	}
}

// Accuracy thresholds for the fog-return buckets.
const (
	accuracyClear      = 0.95
	accuracyStirring   = 0.80
	accuracyReclaiming = 0.60
)

const day = 24 * time.Hour

// TierFor computes the decay tier for a record at the given time.
// The tier is a pure function of recent accuracy and elapsed time since the
// last review; it is never stored, so it cannot drift from its inputs.
func TierFor(rec *models.MasteryRecord, now time.Time) DecayTier {
	label, returnAfter := fogProfile(rec)
	if now.Sub(fogAnchor(rec)) < returnAfter {
		return TierClear
	}
	return label
}

// fogProfile maps the record's accuracy bucket to its tier label and the
// time after which the fog returns. Lower accuracy brings the fog back over
// a smaller fraction of the review interval.
func fogProfile(rec *models.MasteryRecord) (DecayTier, time.Duration) {
	interval := daysToDuration(rec.IntervalDays)
	switch a := rec.RecentAccuracy; {
	case a >= accuracyClear:
		return TierClear, interval
	case a >= accuracyStirring:
		return TierStirring, time.Duration(float64(interval) * 0.75)
	case a >= accuracyReclaiming:
		return TierReclaiming, interval / 2
	default:
		quarter := interval / 4
		if quarter < day {
			quarter = day
		}
		return TierCritical, quarter
	}
}

// fogAnchor is the instant elapsed time is measured from. Records that were
// never reviewed anchor at their creation due date.
func fogAnchor(rec *models.MasteryRecord) time.Time {
	if rec.LastReviewedAt != nil {
		return *rec.LastReviewedAt
	}
	return rec.DueAt
}

// daysToDuration converts a day count (possibly fractional) to a duration.
func daysToDuration(days float64) time.Duration {
	return time.Duration(days * float64(day))
}
