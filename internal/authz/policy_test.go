package authz

import (
	"testing"

	"campushub/internal/identity"
)

func principal(role identity.Role, clubRoles map[string]identity.ClubRole) identity.Principal {
	return identity.Principal{
		UserID:     "u1",
		Role:       role,
		Department: "CSE",
		Year:       2,
		ClubRoles:  clubRoles,
	}
}

func TestCanDecisionTable(t *testing.T) {
	admin := principal(identity.RoleAdmin, nil)
	faculty := principal(identity.RoleFaculty, nil)
	student := principal(identity.RoleStudent, nil)
	lead := principal(identity.RoleStudent, map[string]identity.ClubRole{"c1": identity.ClubLead})
	coordinator := principal(identity.RoleStudent, map[string]identity.ClubRole{"c1": identity.ClubCoordinator})
	member := principal(identity.RoleStudent, map[string]identity.ClubRole{"c1": identity.ClubMember})

	owned := Resource{OwnerID: "u1"}
	foreign := Resource{OwnerID: "other"}
	clubOwned := Resource{OwnerID: "other", ClubID: "c1"}
	otherClub := Resource{OwnerID: "other", ClubID: "c2"}

	tests := []struct {
		name   string
		p      identity.Principal
		action Action
		res    Resource
		want   bool
	}{
		{"admin creates campus event", admin, CreateEvent, Resource{}, true},
		{"faculty creates campus event", faculty, CreateEvent, Resource{}, true},
		{"student creates campus event", student, CreateEvent, Resource{}, false},
		{"club lead creates club event", lead, CreateEvent, Resource{ClubID: "c1"}, true},
		{"club member creates club event", member, CreateEvent, Resource{ClubID: "c1"}, false},
		{"club lead creates event in other club", lead, CreateEvent, Resource{ClubID: "c2"}, false},

		{"admin edits any event", admin, EditEvent, foreign, true},
		{"faculty edits own event", faculty, EditEvent, owned, true},
		{"faculty edits foreign event", faculty, EditEvent, foreign, false},
		{"club lead edits club event", lead, EditEvent, clubOwned, true},
		{"club lead edits other club event", lead, EditEvent, otherClub, false},
		{"student edits event", student, EditEvent, foreign, false},

		{"admin deletes any event", admin, DeleteEvent, foreign, true},
		{"faculty deletes foreign event", faculty, DeleteEvent, foreign, false},
		{"club lead deletes club event", lead, DeleteEvent, clubOwned, true},

		{"admin views registrations", admin, ViewRegistrations, foreign, true},
		{"faculty views registrations of foreign event", faculty, ViewRegistrations, foreign, false},
		{"faculty views registrations of own event", faculty, ViewRegistrations, owned, true},
		{"club lead views registrations", lead, ViewRegistrations, clubOwned, true},
		{"student views registrations", student, ViewRegistrations, foreign, false},

		{"faculty exports own event", faculty, ExportRegistrations, owned, true},
		{"faculty exports foreign event", faculty, ExportRegistrations, foreign, false},
		{"club coordinator exports club event", coordinator, ExportRegistrations, clubOwned, false},
		{"club lead exports club event", lead, ExportRegistrations, clubOwned, true},

		{"student registers", student, Register, Resource{}, true},
		{"faculty registers", faculty, Register, Resource{}, false},
		{"admin registers", admin, Register, Resource{}, false},

		{"student unregisters", student, Unregister, Resource{}, true},
		{"faculty unregisters on behalf", faculty, Unregister, Resource{}, true},
		{"admin unregisters on behalf", admin, Unregister, Resource{}, true},

		{"admin creates club", admin, CreateClub, Resource{}, true},
		{"faculty creates club", faculty, CreateClub, Resource{}, true},
		{"student creates club", student, CreateClub, Resource{}, false},

		{"faculty posts campus announcement", faculty, CreateAnnouncement, Resource{}, true},
		{"student posts campus announcement", student, CreateAnnouncement, Resource{}, false},
		{"club coordinator posts club announcement", coordinator, CreateAnnouncement, Resource{ClubID: "c1"}, true},
		{"club lead posts club announcement", lead, CreateAnnouncement, Resource{ClubID: "c1"}, true},
		{"club member posts club announcement", member, CreateAnnouncement, Resource{ClubID: "c1"}, false},

		{"admin deletes announcement", admin, DeleteAnnouncement, foreign, true},
		{"creator deletes own announcement", faculty, DeleteAnnouncement, owned, true},
		{"faculty deletes foreign announcement", faculty, DeleteAnnouncement, foreign, false},
		{"club lead deletes club announcement", lead, DeleteAnnouncement, clubOwned, true},
		{"club coordinator deletes club announcement", coordinator, DeleteAnnouncement, clubOwned, false},

		{"admin creates achievement", admin, CreateAchievement, Resource{}, true},
		{"faculty creates achievement", faculty, CreateAchievement, Resource{}, true},
		{"student creates achievement", student, CreateAchievement, Resource{}, false},

		{"admin deletes achievement", admin, DeleteAchievement, foreign, true},
		{"creator deletes own achievement", faculty, DeleteAchievement, owned, true},
		{"student deletes foreign achievement", student, DeleteAchievement, foreign, false},

		{"unknown action denied", admin, Action("sudo"), Resource{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.p, tt.action, tt.res); got != tt.want {
				t.Fatalf("Can(%s, %s) = %v, want %v", tt.p.Role, tt.action, got, tt.want)
			}
		})
	}
}

func TestChangeClubMemberRole(t *testing.T) {
	admin := principal(identity.RoleAdmin, nil)
	faculty := principal(identity.RoleFaculty, nil)
	lead := principal(identity.RoleStudent, map[string]identity.ClubRole{"c1": identity.ClubLead})
	member := principal(identity.RoleStudent, map[string]identity.ClubRole{"c1": identity.ClubMember})

	promote := Resource{ClubID: "c1", TargetCurrentRole: identity.ClubMember, NewRole: identity.ClubCoordinator, ClubLeadCount: 1}
	demoteLastLead := Resource{ClubID: "c1", TargetCurrentRole: identity.ClubLead, NewRole: identity.ClubMember, ClubLeadCount: 1}
	demoteOneOfTwoLeads := Resource{ClubID: "c1", TargetCurrentRole: identity.ClubLead, NewRole: identity.ClubMember, ClubLeadCount: 2}

	cases := []struct {
		name string
		p    identity.Principal
		res  Resource
		want bool
	}{
		{"admin promotes member", admin, promote, true},
		{"faculty promotes member", faculty, promote, true},
		{"lead promotes member", lead, promote, true},
		{"member promotes member", member, promote, false},
		{"admin demotes last lead", admin, demoteLastLead, false},
		{"lead demotes last lead", lead, demoteLastLead, false},
		{"lead demotes one of two leads", lead, demoteOneOfTwoLeads, true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.p, ChangeClubMemberRole, tt.res); got != tt.want {
				t.Fatalf("Can(ChangeClubMemberRole) = %v, want %v", got, tt.want)
			}
		})
	}
}
