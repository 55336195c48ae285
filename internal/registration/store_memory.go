package registration

import (
	"context"
	"sync"

	"sportsreg/pkg/platform/sentinel"
)

// InMemoryStore keeps working records in process memory. Suitable for a
// single-instance deployment and for tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*Record)}
}

func (s *InMemoryStore) Put(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

// InMemoryArchive collects completed records for tests.
type InMemoryArchive struct {
	mu    sync.Mutex
	saved []*Record

	// FailWith, when set, makes Save return that error. Lets tests exercise
	// the surfaced-verbatim persistence failure path.
	FailWith error
}

func NewInMemoryArchive() *InMemoryArchive {
	return &InMemoryArchive{}
}

func (a *InMemoryArchive) Save(_ context.Context, rec *Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailWith != nil {
		return a.FailWith
	}
	a.saved = append(a.saved, rec.Clone())
	return nil
}

// Saved returns a snapshot of every archived record.
func (a *InMemoryArchive) Saved() []*Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Record, len(a.saved))
	copy(out, a.saved)
	return out
}
