package verification

import (
	"context"
	"sync"

	"sportsreg/pkg/platform/sentinel"
)

// InMemoryStore keeps challenges for a single process. Save overwrites any
// earlier challenge for the same email, which is what re-requesting a code
// for a new identity needs.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Challenge
	byEmail map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[string]Challenge),
		byEmail: make(map[string]string),
	}
}

func (s *InMemoryStore) Save(_ context.Context, challenge Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.byEmail[challenge.Email]; ok && prev != challenge.CorrelationID {
		delete(s.byID, prev)
	}
	s.byID[challenge.CorrelationID] = challenge
	s.byEmail[challenge.Email] = challenge.CorrelationID
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, correlationID string) (Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.byID[correlationID]
	if !ok {
		return Challenge{}, sentinel.ErrNotFound
	}
	return ch, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return Challenge{}, sentinel.ErrNotFound
	}
	return s.byID[id], nil
}
