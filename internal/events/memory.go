package events

import (
	"context"
	"sync"

	"campushub/internal/domain"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and the
// STORE_BACKEND=memory dev mode.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string]Event
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string]Event)}
}

func (s *MemoryStore) Create(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; ok {
		return domain.ErrConflict
	}
	s.events[e.ID] = e
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return Event{}, domain.ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Update(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.events[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	e.RegistrationCount = current.RegistrationCount
	s.events[e.ID] = e
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, clubID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Event
	for _, e := range s.events {
		if e.ClubID == clubID {
			res = append(res, e)
		}
	}
	return res, nil
}

// AdjustRegistrationCount applies a delta to the denormalized counter.
// The registration store calls this when rows are added or withdrawn.
func (s *MemoryStore) AdjustRegistrationCount(id string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return
	}
	e.RegistrationCount += delta
	if e.RegistrationCount < 0 {
		e.RegistrationCount = 0
	}
	s.events[id] = e
}
