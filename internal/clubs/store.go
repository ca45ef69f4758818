package clubs

import (
	"context"

	"campushub/internal/identity"
)

// Store persists clubs and memberships. Membership writes are keyed by
// (clubID, userID); AddMember returns domain.ErrConflict for an
// existing pair, the role mutators return domain.ErrNotFound for a
// missing one.
type Store interface {
	CreateClub(ctx context.Context, c Club) error
	GetClub(ctx context.Context, id string) (Club, error)
	// ListClubs returns all clubs ordered by name.
	ListClubs(ctx context.Context) ([]Club, error)
	// MemberCounts returns club ID -> member count for all clubs.
	MemberCounts(ctx context.Context) (map[string]int, error)

	AddMember(ctx context.Context, m Membership) error
	RemoveMember(ctx context.Context, clubID, userID string) error
	UpdateMemberRole(ctx context.Context, clubID, userID string, role identity.ClubRole) error
	// ListMembers returns a club's memberships ordered by join time.
	ListMembers(ctx context.Context, clubID string) ([]Membership, error)
	// MembershipsForUser backs club-role resolution on every request.
	MembershipsForUser(ctx context.Context, userID string) ([]Membership, error)
}
