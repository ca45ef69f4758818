package clubs

import (
	"context"
	"sort"
	"sync"

	"campushub/internal/domain"
	"campushub/internal/identity"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	clubs       map[string]Club
	memberships map[string][]Membership // clubID -> join order
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clubs:       make(map[string]Club),
		memberships: make(map[string][]Membership),
	}
}

func (s *MemoryStore) CreateClub(ctx context.Context, c Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clubs[c.ID]; ok {
		return domain.ErrConflict
	}
	s.clubs[c.ID] = c
	return nil
}

func (s *MemoryStore) GetClub(ctx context.Context, id string) (Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clubs[id]
	if !ok {
		return Club{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) ListClubs(ctx context.Context) ([]Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Club, 0, len(s.clubs))
	for _, c := range s.clubs {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *MemoryStore) MemberCounts(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.memberships))
	for id, ms := range s.memberships {
		if len(ms) > 0 {
			counts[id] = len(ms)
		}
	}
	return counts, nil
}

func (s *MemoryStore) AddMember(ctx context.Context, m Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clubs[m.ClubID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range s.memberships[m.ClubID] {
		if existing.UserID == m.UserID {
			return domain.ErrConflict
		}
	}
	s.memberships[m.ClubID] = append(s.memberships[m.ClubID], m)
	return nil
}

func (s *MemoryStore) RemoveMember(ctx context.Context, clubID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.memberships[clubID]
	for i, m := range ms {
		if m.UserID == userID {
			s.memberships[clubID] = append(ms[:i:i], ms[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *MemoryStore) UpdateMemberRole(ctx context.Context, clubID, userID string, role identity.ClubRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.memberships[clubID]
	for i := range ms {
		if ms[i].UserID == userID {
			ms[i].Role = role
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *MemoryStore) ListMembers(ctx context.Context, clubID string) ([]Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ms := s.memberships[clubID]
	out := make([]Membership, len(ms))
	copy(out, ms)
	return out, nil
}

func (s *MemoryStore) MembershipsForUser(ctx context.Context, userID string) ([]Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Membership
	for _, ms := range s.memberships {
		for _, m := range ms {
			if m.UserID == userID {
				res = append(res, m)
			}
		}
	}
	return res, nil
}
