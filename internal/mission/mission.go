package mission

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/verdania/internal/energy"
	"github.com/example/verdania/internal/fog"
	"github.com/example/verdania/pkg/models"
)

// Kind represents the type of mission a user plays.
type Kind string

const (
	// Learn is a new-learning mission over tiles the user has not cleared.
	Learn Kind = "learn"
	// Bridge is a heavier mission connecting two cleared sections.
	Bridge Kind = "bridge"
	// Review replays tiles whose fog has returned. Always free.
	Review Kind = "review"
)

// EnergyCost returns the charge cost to start a mission of this kind.
func (k Kind) EnergyCost() int {
	switch k {
	case Bridge:
		return 2
	case Review:
		return 0
	default:
		return 1
	}
}

// Mission is one play session over a set of tiles.
type Mission struct {
	ID        string
	Kind      Kind
	Tiles     []string
	StartedAt time.Time
}

// AnswerLog records which answer request ids were already applied, so that
// transport retries cannot apply the same state transition twice.
type AnswerLog interface {
	Seen(requestID string) (bool, error)
	Record(event *models.AnswerEvent) error
}

// MemoryAnswerLog is an in-memory AnswerLog for tests and tooling.
type MemoryAnswerLog struct {
	events map[string]*models.AnswerEvent
}

// NewMemoryAnswerLog creates an empty answer log.
func NewMemoryAnswerLog() *MemoryAnswerLog {
	return &MemoryAnswerLog{events: make(map[string]*models.AnswerEvent)}
}

// Seen reports whether the request id was recorded before.
func (l *MemoryAnswerLog) Seen(requestID string) (bool, error) {
	_, ok := l.events[requestID]
	return ok, nil
}

// Record stores the event under its request id.
func (l *MemoryAnswerLog) Record(event *models.AnswerEvent) error {
	l.events[event.RequestID] = event
	return nil
}

// Director wires the energy budget and the fog scheduler into mission flow
// for one user. It is the integration point the game client talks to: start
// a mission, submit graded answers, poll the fog queue.
type Director struct {
	userID  int64
	budget  *energy.Budget
	fog     *fog.ReviewScheduler
	answers AnswerLog
}

// NewDirector creates a mission director for one user.
func NewDirector(userID int64, budget *energy.Budget, scheduler *fog.ReviewScheduler, answers AnswerLog) *Director {
	return &Director{
		userID:  userID,
		budget:  budget,
		fog:     scheduler,
		answers: answers,
	}
}

// Start charges the energy budget and assembles a mission. Learning and
// bridge missions spend charges and play the given tiles; review missions
// are free and draw their tiles from the fog queue instead. An unaffordable
// mission returns energy.ErrInsufficient with the pool untouched.
func (d *Director) Start(kind Kind, tiles []string, now time.Time) (*Mission, error) {
	switch kind {
	case Learn, Bridge, Review:
	default:
		return nil, fmt.Errorf("%w: unknown mission kind %q", ErrValidation, kind)
	}

	if kind == Review {
		due, err := d.fog.ListDue(now)
		if err != nil {
			return nil, err
		}
		tiles = make([]string, len(due))
		for i, u := range due {
			tiles[i] = u.UnitID
		}
	} else {
		if len(tiles) == 0 {
			return nil, fmt.Errorf("%w: mission needs at least one tile", ErrValidation)
		}
		res, err := d.budget.Spend(kind.EnergyCost(), now)
		if err != nil {
			return nil, err
		}
		if !res.OK {
			return nil, fmt.Errorf("%w: %s mission costs %d, have %d",
				energy.ErrInsufficient, kind, kind.EnergyCost(), res.Pool.Current)
		}
	}

	return &Mission{
		ID:        uuid.New().String(),
		Kind:      kind,
		Tiles:     tiles,
		StartedAt: now,
	}, nil
}

// SubmitAnswer applies one graded answer exactly once, keyed by requestID.
// A repeated request id is a no-op that returns the current record with
// applied=false, since the scheduler's state transition must not run twice
// for one answer; callers use applied to keep mission progress in step. An
// empty requestID gets a generated one (no de-duplication possible then).
func (d *Director) SubmitAnswer(m *Mission, requestID, unitID string, correct bool, accuracy *float64, now time.Time) (rec *models.MasteryRecord, applied bool, err error) {
	if requestID == "" {
		requestID = uuid.New().String()
	} else {
		seen, err := d.answers.Seen(requestID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check answer log: %w", err)
		}
		if seen {
			rec, err := d.fog.Record(unitID)
			return rec, false, err
		}
	}

	rec, err = d.fog.RecordAnswer(fog.Answer{
		UnitID:   unitID,
		Correct:  correct,
		Accuracy: accuracy,
	}, now)
	if err != nil {
		return nil, false, err
	}

	hint := 0.0
	if correct {
		hint = 1.0
	}
	if accuracy != nil {
		hint = *accuracy
	}
	event := &models.AnswerEvent{
		RequestID: requestID,
		UserID:    d.userID,
		MissionID: m.ID,
		UnitID:    unitID,
		Correct:   correct,
		Accuracy:  hint,
		CreatedAt: now,
	}
	if err := d.answers.Record(event); err != nil {
		return nil, false, fmt.Errorf("failed to record answer event: %w", err)
	}
	return rec, true, nil
}

// DueCount returns how many tiles sit in each non-clear fog tier, for the
// "N tiles need review" badge.
func (d *Director) DueCount(now time.Time) (critical, total int, err error) {
	due, err := d.fog.ListDue(now)
	if err != nil {
		return 0, 0, err
	}
	for _, u := range due {
		if u.Tier == fog.TierCritical {
			critical++
		}
	}
	return critical, len(due), nil
}
