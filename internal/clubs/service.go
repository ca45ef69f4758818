package clubs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campushub/internal/authz"
	"campushub/internal/domain"
	"campushub/internal/identity"
)

// Definition is the payload for creating a club.
type Definition struct {
	Name        string
	Description string
	Category    string
	// LeadUserID optionally seeds the club's first lead.
	LeadUserID string
}

// Service coordinates club and membership operations. It doubles as the
// identity.RoleSource consulted by the auth middleware.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewService wires a club service. now is injectable for tests.
func NewService(store Store, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, log: log, now: now}
}

// Create registers a new club, optionally seeding its first lead.
func (s *Service) Create(ctx context.Context, p identity.Principal, def Definition) (Club, error) {
	if !authz.Can(p, authz.CreateClub, authz.Resource{}) {
		return Club{}, authz.Forbidden(authz.CreateClub)
	}
	if def.Name == "" {
		return Club{}, domain.InvalidPayload("name", "required")
	}
	c := Club{
		ID:          uuid.NewString(),
		Name:        def.Name,
		Description: def.Description,
		Category:    def.Category,
		CreatedBy:   p.UserID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateClub(ctx, c); err != nil {
		return Club{}, err
	}
	if def.LeadUserID != "" {
		err := s.store.AddMember(ctx, Membership{
			ClubID:   c.ID,
			UserID:   def.LeadUserID,
			Role:     identity.ClubLead,
			JoinedAt: c.CreatedAt,
		})
		if err != nil {
			return Club{}, err
		}
	}
	s.log.Info().Str("club_id", c.ID).Str("name", c.Name).Str("created_by", p.UserID).Msg("club created")
	return c, nil
}

// List returns all clubs with member counts and the caller's role.
func (s *Service) List(ctx context.Context, p identity.Principal) ([]Summary, error) {
	all, err := s.store.ListClubs(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.MemberCounts(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]Summary, 0, len(all))
	for _, c := range all {
		res = append(res, Summary{
			Club:        c,
			MemberCount: counts[c.ID],
			MyRole:      p.ClubRole(c.ID),
		})
	}
	return res, nil
}

// Get returns one club with membership context for the caller.
func (s *Service) Get(ctx context.Context, p identity.Principal, id string) (Summary, error) {
	c, err := s.store.GetClub(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	counts, err := s.store.MemberCounts(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Club: c, MemberCount: counts[c.ID], MyRole: p.ClubRole(c.ID)}, nil
}

// Join adds the caller as a member. Joining twice yields ErrConflict.
func (s *Service) Join(ctx context.Context, p identity.Principal, clubID string) error {
	if _, err := s.store.GetClub(ctx, clubID); err != nil {
		return err
	}
	return s.store.AddMember(ctx, Membership{
		ClubID:   clubID,
		UserID:   p.UserID,
		Role:     identity.ClubMember,
		JoinedAt: s.now().UTC(),
	})
}

// Leave removes the caller's own membership. A lead cannot leave while
// they are the club's only lead.
func (s *Service) Leave(ctx context.Context, p identity.Principal, clubID string) error {
	if p.ClubRole(clubID) == identity.ClubLead {
		leads, err := s.leadCount(ctx, clubID)
		if err != nil {
			return err
		}
		if leads <= 1 {
			return domain.ErrConflict
		}
	}
	return s.store.RemoveMember(ctx, clubID, p.UserID)
}

// Members lists a club's memberships in join order.
func (s *Service) Members(ctx context.Context, clubID string) ([]Membership, error) {
	if _, err := s.store.GetClub(ctx, clubID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, clubID)
}

// ChangeMemberRole promotes or demotes a member. The policy refuses any
// change that would leave the club without a lead.
func (s *Service) ChangeMemberRole(ctx context.Context, p identity.Principal, clubID, userID string, role identity.ClubRole) error {
	if !identity.ValidClubRole(string(role)) {
		return domain.InvalidPayload("role", "unknown club role")
	}
	members, err := s.Members(ctx, clubID)
	if err != nil {
		return err
	}
	var current identity.ClubRole
	leads := 0
	found := false
	for _, m := range members {
		if m.Role == identity.ClubLead {
			leads++
		}
		if m.UserID == userID {
			current = m.Role
			found = true
		}
	}
	if !found {
		return domain.ErrNotFound
	}
	res := authz.Resource{
		ClubID:            clubID,
		TargetCurrentRole: current,
		NewRole:           role,
		ClubLeadCount:     leads,
	}
	if !authz.Can(p, authz.ChangeClubMemberRole, res) {
		return authz.Forbidden(authz.ChangeClubMemberRole)
	}
	if err := s.store.UpdateMemberRole(ctx, clubID, userID, role); err != nil {
		return err
	}
	s.log.Info().Str("club_id", clubID).Str("user_id", userID).Str("role", string(role)).Str("by", p.UserID).Msg("club role changed")
	return nil
}

// RolesForUser implements identity.RoleSource.
func (s *Service) RolesForUser(ctx context.Context, userID string) (map[string]identity.ClubRole, error) {
	ms, err := s.store.MembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles := make(map[string]identity.ClubRole, len(ms))
	for _, m := range ms {
		roles[m.ClubID] = m.Role
	}
	return roles, nil
}

func (s *Service) leadCount(ctx context.Context, clubID string) (int, error) {
	members, err := s.store.ListMembers(ctx, clubID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range members {
		if m.Role == identity.ClubLead {
			n++
		}
	}
	return n, nil
}
