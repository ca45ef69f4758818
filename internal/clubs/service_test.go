package clubs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"campushub/internal/authz"
	"campushub/internal/domain"
	"campushub/internal/identity"
)

var testClock = time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewService(store, zerolog.Nop(), func() time.Time { return testClock }), store
}

func facultyP(id string) identity.Principal {
	return identity.Principal{UserID: id, Role: identity.RoleFaculty}
}

func studentP(id string, roles map[string]identity.ClubRole) identity.Principal {
	return identity.Principal{UserID: id, Role: identity.RoleStudent, Department: "CSE", Year: 2, ClubRoles: roles}
}

func seedClub(t *testing.T, svc *Service, leadID string) Club {
	t.Helper()
	c, err := svc.Create(context.Background(), facultyP("f1"), Definition{
		Name:       "Robotics Club",
		Category:   "Technical",
		LeadUserID: leadID,
	})
	if err != nil {
		t.Fatalf("seed club: %v", err)
	}
	return c
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)

	c := seedClub(t, svc, "lead1")
	if c.ID == "" || c.CreatedBy != "f1" {
		t.Fatalf("club = %+v", c)
	}

	members, err := svc.Members(context.Background(), c.ID)
	if err != nil || len(members) != 1 {
		t.Fatalf("members = %v, %v", members, err)
	}
	if members[0].UserID != "lead1" || members[0].Role != identity.ClubLead {
		t.Fatalf("seeded lead = %+v", members[0])
	}

	if _, err := svc.Create(context.Background(), studentP("s1", nil), Definition{Name: "Shadow"}); err == nil {
		t.Fatal("student created a club")
	}

	var ipe domain.InvalidPayloadError
	_, err = svc.Create(context.Background(), facultyP("f1"), Definition{})
	if !errors.As(err, &ipe) || ipe.Field != "name" {
		t.Fatalf("unnamed club: got %v", err)
	}
}

func TestJoinAndLeave(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedClub(t, svc, "lead1")
	s1 := studentP("s1", nil)

	if err := svc.Join(context.Background(), s1, c.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.Join(context.Background(), s1, c.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("repeat join: got %v", err)
	}
	if err := svc.Join(context.Background(), s1, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("join unknown club: got %v", err)
	}

	if err := svc.Leave(context.Background(), s1, c.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := svc.Leave(context.Background(), s1, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("repeat leave: got %v", err)
	}

	// the only lead cannot abandon the club
	lead := studentP("lead1", map[string]identity.ClubRole{c.ID: identity.ClubLead})
	if err := svc.Leave(context.Background(), lead, c.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("last lead leaving: got %v", err)
	}
}

func TestListSummaries(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedClub(t, svc, "lead1")
	if err := svc.Join(context.Background(), studentP("s1", nil), c.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	viewer := studentP("s1", map[string]identity.ClubRole{c.ID: identity.ClubMember})
	res, err := svc.List(context.Background(), viewer)
	if err != nil || len(res) != 1 {
		t.Fatalf("list = %v, %v", res, err)
	}
	if res[0].MemberCount != 2 {
		t.Fatalf("member count = %d, want 2", res[0].MemberCount)
	}
	if res[0].MyRole != identity.ClubMember {
		t.Fatalf("my role = %q", res[0].MyRole)
	}

	outsider := studentP("s9", nil)
	res, err = svc.List(context.Background(), outsider)
	if err != nil || res[0].MyRole != "" {
		t.Fatalf("outsider role = %q, %v", res[0].MyRole, err)
	}
}

func TestChangeMemberRole(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedClub(t, svc, "lead1")
	if err := svc.Join(context.Background(), studentP("s1", nil), c.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	lead := studentP("lead1", map[string]identity.ClubRole{c.ID: identity.ClubLead})
	member := studentP("s1", map[string]identity.ClubRole{c.ID: identity.ClubMember})

	if err := svc.ChangeMemberRole(context.Background(), lead, c.ID, "s1", identity.ClubCoordinator); err != nil {
		t.Fatalf("promote: %v", err)
	}
	members, _ := svc.Members(context.Background(), c.ID)
	for _, m := range members {
		if m.UserID == "s1" && m.Role != identity.ClubCoordinator {
			t.Fatalf("role not updated: %+v", m)
		}
	}

	var fe authz.ForbiddenError
	if err := svc.ChangeMemberRole(context.Background(), member, c.ID, "lead1", identity.ClubMember); !errors.As(err, &fe) {
		t.Fatalf("member changing roles: got %v", err)
	}
	// demoting the only lead is refused even for a lead
	if err := svc.ChangeMemberRole(context.Background(), lead, c.ID, "lead1", identity.ClubMember); !errors.As(err, &fe) {
		t.Fatalf("demote last lead: got %v", err)
	}

	// with a second lead the demotion goes through
	if err := svc.ChangeMemberRole(context.Background(), lead, c.ID, "s1", identity.ClubLead); err != nil {
		t.Fatalf("promote second lead: %v", err)
	}
	if err := svc.ChangeMemberRole(context.Background(), lead, c.ID, "lead1", identity.ClubMember); err != nil {
		t.Fatalf("demote one of two leads: %v", err)
	}

	var ipe domain.InvalidPayloadError
	if err := svc.ChangeMemberRole(context.Background(), lead, c.ID, "s1", "emperor"); !errors.As(err, &ipe) || ipe.Field != "role" {
		t.Fatalf("unknown role: got %v", err)
	}
	if err := svc.ChangeMemberRole(context.Background(), lead, c.ID, "ghost", identity.ClubMember); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown member: got %v", err)
	}
}

func TestRolesForUser(t *testing.T) {
	svc, _ := newTestService(t)
	c1 := seedClub(t, svc, "lead1")
	c2, err := svc.Create(context.Background(), facultyP("f1"), Definition{Name: "Drama Club"})
	if err != nil {
		t.Fatalf("second club: %v", err)
	}
	if err := svc.Join(context.Background(), studentP("lead1", nil), c2.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	roles, err := svc.RolesForUser(context.Background(), "lead1")
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if roles[c1.ID] != identity.ClubLead || roles[c2.ID] != identity.ClubMember {
		t.Fatalf("roles = %v", roles)
	}
	if len(roles) != 2 {
		t.Fatalf("roles = %v", roles)
	}
}
