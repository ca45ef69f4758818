package announcements

import (
	"context"
	"sort"
	"sync"

	"campushub/internal/domain"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Announcement
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Announcement)}
}

func (s *MemoryStore) Create(ctx context.Context, a Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[a.ID]; ok {
		return domain.ErrConflict
	}
	s.byID[a.ID] = a
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return Announcement{}, domain.ErrNotFound
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

func (s *MemoryStore) List(ctx context.Context, clubID string) ([]Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Announcement
	for _, a := range s.byID {
		if a.ClubID == clubID {
			res = append(res, a)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].IsPinned != res[j].IsPinned {
			return res[i].IsPinned
		}
		if !res[i].PublishedAt.Equal(res[j].PublishedAt) {
			return res[i].PublishedAt.After(res[j].PublishedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}
