package taxonomy

import (
	"context"
	"sort"
	"sync"

	"sportsreg/pkg/platform/sentinel"
)

// InMemoryStore holds a validated catalog snapshot. It is immutable after
// construction, so reads need no locking beyond the copy on return.
type InMemoryStore struct {
	mu     sync.RWMutex
	sports map[string]Sport
	cats   map[string]Category
	subs   map[string]SubCategory
}

// NewInMemoryStore validates the hierarchy and indexes it. A nesting
// violation fails construction rather than being clamped.
func NewInMemoryStore(sports []Sport, categories []Category, subs []SubCategory) (*InMemoryStore, error) {
	if err := validateHierarchy(sports, categories, subs); err != nil {
		return nil, err
	}
	s := &InMemoryStore{
		sports: make(map[string]Sport, len(sports)),
		cats:   make(map[string]Category, len(categories)),
		subs:   make(map[string]SubCategory, len(subs)),
	}
	for _, sp := range sports {
		s.sports[sp.ID] = sp
	}
	for _, c := range categories {
		s.cats[c.ID] = c
	}
	for _, sub := range subs {
		s.subs[sub.ID] = sub
	}
	return s, nil
}

func (s *InMemoryStore) ListSports(_ context.Context) ([]Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sport, 0, len(s.sports))
	for _, sp := range s.sports {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) FindSport(_ context.Context, sportID string) (Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.sports[sportID]
	if !ok {
		return Sport{}, sentinel.ErrNotFound
	}
	return sp, nil
}

func (s *InMemoryStore) ListCategories(_ context.Context, sportID string) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sports[sportID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	var out []Category
	for _, c := range s.cats {
		if c.SportID == sportID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) FindCategory(_ context.Context, categoryID string) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cats[categoryID]
	if !ok {
		return Category{}, sentinel.ErrNotFound
	}
	return c, nil
}

func (s *InMemoryStore) ListSubCategories(_ context.Context, categoryID string) ([]SubCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.cats[categoryID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	var out []SubCategory
	for _, sub := range s.subs {
		if sub.CategoryID == categoryID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *InMemoryStore) FindSubCategory(_ context.Context, subCategoryID string) (SubCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[subCategoryID]
	if !ok {
		return SubCategory{}, sentinel.ErrNotFound
	}
	return sub, nil
}
