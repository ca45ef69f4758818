package achievements

import (
	"context"
	"sort"
	"sync"

	"campushub/internal/domain"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Achievement
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Achievement)}
}

func (s *MemoryStore) Create(ctx context.Context, a Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[a.ID]; ok {
		return domain.ErrConflict
	}
	s.byID[a.ID] = a
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return Achievement{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Achievement
	for _, a := range s.byID {
		if f.StudentID != "" && a.StudentID != f.StudentID {
			continue
		}
		if f.EventID != "" && a.EventID != f.EventID {
			continue
		}
		if f.Badge != "" && a.Badge != f.Badge {
			continue
		}
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *MemoryStore) CountForEvent(ctx context.Context, eventID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.byID {
		if a.EventID == eventID {
			n++
		}
	}
	return n, nil
}
