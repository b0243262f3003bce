package fog

import (
	"sort"

	"github.com/example/verdania/pkg/models"
)

// RecordStore is the persistence hook point for mastery records. The
// scheduler owns one store per user; implementations do not need to be safe
// for concurrent use because the scheduler serializes access.
//
// Load returns (nil, nil) for a unit with no record yet.
type RecordStore interface {
	Load(unitID string) (*models.MasteryRecord, error)
	Save(rec *models.MasteryRecord) error
	All() ([]*models.MasteryRecord, error)
}

// MemoryStore keeps mastery records in a map. It backs tests and
// single-session tooling; production callers use the database-backed store.
type MemoryStore struct {
	records map[string]*models.MasteryRecord
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.MasteryRecord)}
}

// Load returns a copy of the stored record, or (nil, nil) if absent.
func (s *MemoryStore) Load(unitID string) (*models.MasteryRecord, error) {
	rec, ok := s.records[unitID]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// Save stores a copy of the record, keyed by unit id.
func (s *MemoryStore) Save(rec *models.MasteryRecord) error {
	s.records[rec.UnitID] = rec.Clone()
	return nil
}

// All returns copies of every stored record, ordered by unit id so that
// iteration is deterministic.
func (s *MemoryStore) All() ([]*models.MasteryRecord, error) {
	out := make([]*models.MasteryRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}
