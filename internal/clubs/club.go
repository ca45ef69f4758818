package clubs

import (
	"time"

	"campushub/internal/identity"
)

// Club is a student body that can own events and announcements.
type Club struct {
	ID          string
	Name        string
	Description string
	Category    string
	CreatedBy   string
	CreatedAt   time.Time
}

// Membership ties a user to a club with a club-scoped role.
type Membership struct {
	ClubID   string
	UserID   string
	Role     identity.ClubRole
	JoinedAt time.Time
}

// Summary is a club as shown in listings, with membership context for
// the requesting principal.
type Summary struct {
	Club
	MemberCount int
	MyRole      identity.ClubRole // empty when not a member
}
