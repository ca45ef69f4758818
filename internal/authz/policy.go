// Package authz is the single authorization choke point. Every mutating
// service entry point calls Can exactly once before touching a store.
package authz

import (
	"fmt"

	"campushub/internal/identity"
)

// Action names an operation a principal may attempt.
type Action string

const (
	CreateEvent          Action = "create_event"
	EditEvent            Action = "edit_event"
	DeleteEvent          Action = "delete_event"
	ViewRegistrations    Action = "view_registrations"
	ExportRegistrations  Action = "export_registrations"
	Register             Action = "register"
	Unregister           Action = "unregister"
	CreateClub           Action = "create_club"
	CreateAnnouncement   Action = "create_announcement"
	DeleteAnnouncement   Action = "delete_announcement"
	CreateAchievement    Action = "create_achievement"
	DeleteAchievement    Action = "delete_achievement"
	ChangeClubMemberRole Action = "change_club_member_role"
)

// Resource describes the target of an action. ClubID is empty for
// campus-wide resources. The role-change fields are consulted only for
// ChangeClubMemberRole.
type Resource struct {
	OwnerID string
	ClubID  string

	TargetCurrentRole identity.ClubRole
	NewRole           identity.ClubRole
	ClubLeadCount     int
}

// ForbiddenError is returned by services when Can denies an action.
type ForbiddenError struct {
	Action Action
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// Forbidden wraps an action in a ForbiddenError.
func Forbidden(a Action) error { return ForbiddenError{Action: a} }

// Can evaluates the decision table. It is synchronous, side-effect free
// and total: unknown actions are denied.
func Can(p identity.Principal, a Action, r Resource) bool {
	switch a {
	case CreateEvent:
		if r.ClubID != "" {
			return p.IsStaff() || p.ClubRole(r.ClubID) == identity.ClubLead
		}
		return p.IsStaff()

	case EditEvent, DeleteEvent, ViewRegistrations, ExportRegistrations:
		// Management visibility is coupled to management authority.
		return canManage(p, r)

	case Register:
		return p.Role == identity.RoleStudent

	case Unregister:
		// Staff may unregister on behalf of a student.
		return p.Role == identity.RoleStudent || p.IsStaff()

	case CreateClub:
		return p.IsStaff()

	case CreateAnnouncement:
		if r.ClubID != "" {
			cr := p.ClubRole(r.ClubID)
			return p.IsStaff() || cr == identity.ClubLead || cr == identity.ClubCoordinator
		}
		return p.IsStaff()

	case CreateAchievement:
		return p.IsStaff()

	case DeleteAnnouncement, DeleteAchievement:
		if p.Role == identity.RoleAdmin || (r.OwnerID != "" && r.OwnerID == p.UserID) {
			return true
		}
		return r.ClubID != "" && p.ClubRole(r.ClubID) == identity.ClubLead

	case ChangeClubMemberRole:
		if p.Role != identity.RoleAdmin && p.Role != identity.RoleFaculty &&
			p.ClubRole(r.ClubID) != identity.ClubLead {
			return false
		}
		// A club must keep at least one lead.
		if r.TargetCurrentRole == identity.ClubLead && r.NewRole != identity.ClubLead && r.ClubLeadCount <= 1 {
			return false
		}
		return true
	}
	return false
}

func canManage(p identity.Principal, r Resource) bool {
	if p.Role == identity.RoleAdmin {
		return true
	}
	if p.Role == identity.RoleFaculty && r.OwnerID != "" && r.OwnerID == p.UserID {
		return true
	}
	return r.ClubID != "" && p.ClubRole(r.ClubID) == identity.ClubLead
}
