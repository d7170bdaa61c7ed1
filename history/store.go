// Package history keeps the session-scoped operation log. Records are keyed
// by the provisional ID assigned at intent time; the network transaction
// signature fills in once submission succeeds. Writes are merging upserts so
// that concurrent stage updates from builder and tracker goroutines never lose
// fields.
package history

import (
	"sync"
	"time"

	"github.com/krispycake/solmint/faults"
	"github.com/krispycake/solmint/models"
)

// Update is a partial write against one record. Zero-valued fields are left
// untouched on an existing record, with two exceptions stated by the merge
// rule: Status and Detail always take the incoming value when supplied.
// NetworkID, once recorded, is never cleared by an update that omits it.
type Update struct {
	ProvisionalID string
	Kind          models.OperationKind
	NetworkID     string
	Status        models.OperationStatus
	Detail        string
	Failure       *faults.Error
}

// Store is the in-memory operation ledger. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*models.OperationRecord
	order []string

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]*models.OperationRecord),
		now:  time.Now,
	}
}

// Apply upserts one record and returns its state after the write.
//
// A first write for a key creates the record (status defaults to Processing).
// Later writes merge per the Update rules. Once a record reaches Success or
// Failed it is frozen: any further update for that key is a no-op.
func (s *Store) Apply(u Update) models.OperationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[u.ProvisionalID]
	if !ok {
		rec = &models.OperationRecord{
			ProvisionalID: u.ProvisionalID,
			Kind:          u.Kind,
			NetworkID:     u.NetworkID,
			Status:        models.StatusProcessing,
			Detail:        u.Detail,
			Failure:       u.Failure,
			CreatedAt:     s.now(),
		}
		if u.Status != "" {
			rec.Status = u.Status
		}
		s.byID[u.ProvisionalID] = rec
		s.order = append(s.order, u.ProvisionalID)
		return *rec
	}

	if rec.Status.Terminal() {
		return *rec
	}

	if u.Kind != "" {
		rec.Kind = u.Kind
	}
	if u.NetworkID != "" {
		rec.NetworkID = u.NetworkID
	}
	if u.Status != "" {
		rec.Status = u.Status
	}
	if u.Detail != "" {
		rec.Detail = u.Detail
	}
	if u.Failure != nil {
		rec.Failure = u.Failure
	}
	return *rec
}

// Get returns a copy of the record for the given provisional ID.
func (s *Store) Get(provisionalID string) (models.OperationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[provisionalID]
	if !ok {
		return models.OperationRecord{}, false
	}
	return *rec, true
}

// Snapshot returns all records, newest first.
func (s *Store) Snapshot() []models.OperationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.OperationRecord, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, *s.byID[s.order[i]])
	}
	return out
}

// Len reports the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
