package registrations

import (
	"context"
	"sync"

	"campushub/internal/domain"
)

// Counter receives denormalized registration-count adjustments. The
// events.MemoryStore satisfies it.
type Counter interface {
	AdjustRegistrationCount(eventID string, delta int)
}

// MemoryStore is an in-memory Store. One mutex guards the
// check-then-insert so concurrent duplicate registrations settle the
// same way the database constraint does.
type MemoryStore struct {
	mu      sync.Mutex
	byKey   map[string]Registration
	byEvent map[string][]string // insertion order of keys
	counter Counter
}

// NewMemoryStore creates an empty store. counter may be nil.
func NewMemoryStore(counter Counter) *MemoryStore {
	return &MemoryStore{
		byKey:   make(map[string]Registration),
		byEvent: make(map[string][]string),
		counter: counter,
	}
}

func key(eventID, principalID string) string { return eventID + "\x00" + principalID }

func (s *MemoryStore) Insert(ctx context.Context, r Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(r.EventID, r.PrincipalID)
	if _, ok := s.byKey[k]; ok {
		return domain.ErrConflict
	}
	s.byKey[k] = r
	s.byEvent[r.EventID] = append(s.byEvent[r.EventID], k)
	if s.counter != nil {
		s.counter.AdjustRegistrationCount(r.EventID, 1)
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, eventID, principalID string) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byKey[key(eventID, principalID)]
	if !ok {
		return Registration{}, domain.ErrNotRegistered
	}
	return r, nil
}

func (s *MemoryStore) Delete(ctx context.Context, eventID, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(eventID, principalID)
	if _, ok := s.byKey[k]; !ok {
		return domain.ErrNotRegistered
	}
	delete(s.byKey, k)
	keys := s.byEvent[eventID]
	for i, existing := range keys {
		if existing == k {
			s.byEvent[eventID] = append(keys[:i:i], keys[i+1:]...)
			break
		}
	}
	if s.counter != nil {
		s.counter.AdjustRegistrationCount(eventID, -1)
	}
	return nil
}

func (s *MemoryStore) ListForEvent(ctx context.Context, eventID string) ([]Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.byEvent[eventID]
	regs := make([]Registration, 0, len(keys))
	for _, k := range keys {
		regs = append(regs, s.byKey[k])
	}
	return regs, nil
}

func (s *MemoryStore) EventIDsForPrincipal(ctx context.Context, principalID string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]bool)
	for _, r := range s.byKey {
		if r.PrincipalID == principalID {
			ids[r.EventID] = true
		}
	}
	return ids, nil
}

func (s *MemoryStore) DeleteForEvent(ctx context.Context, eventID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.byEvent[eventID]
	for _, k := range keys {
		delete(s.byKey, k)
	}
	delete(s.byEvent, eventID)
	if s.counter != nil && len(keys) > 0 {
		s.counter.AdjustRegistrationCount(eventID, -len(keys))
	}
	return len(keys), nil
}
