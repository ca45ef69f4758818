package identity

import "context"

// Role is a system-wide role carried by every authenticated user.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// ClubRole applies only within a single club, independent of the
// principal's system-wide role.
type ClubRole string

const (
	ClubMember      ClubRole = "member"
	ClubCoordinator ClubRole = "coordinator"
	ClubLead        ClubRole = "lead"
)

// ValidClubRole reports whether s names a known club role.
func ValidClubRole(s string) bool {
	switch ClubRole(s) {
	case ClubMember, ClubCoordinator, ClubLead:
		return true
	}
	return false
}

// Principal is the authenticated actor performing an action. Core
// operations receive it explicitly; nothing reads ambient session state.
type Principal struct {
	UserID     string
	Role       Role
	Department string
	Year       int
	ClubRoles  map[string]ClubRole
}

// ClubRole returns the principal's role within the given club, or ""
// when they are not a member.
func (p Principal) ClubRole(clubID string) ClubRole {
	if clubID == "" {
		return ""
	}
	return p.ClubRoles[clubID]
}

// IsStaff reports whether the principal holds a campus-wide staff role.
func (p Principal) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleFaculty
}

// RoleSource supplies a user's club-scoped roles when building a
// Principal from a verified token.
type RoleSource interface {
	RolesForUser(ctx context.Context, userID string) (map[string]ClubRole, error)
}
