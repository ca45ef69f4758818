package registrations

import "context"

// Store is an append-only log of registrations with a single withdrawal
// operation. Insert must be atomic with respect to the (eventID,
// principalID) uniqueness invariant: of two concurrent inserts for the
// same pair, exactly one succeeds and the other gets domain.ErrConflict.
type Store interface {
	Insert(ctx context.Context, r Registration) error
	Get(ctx context.Context, eventID, principalID string) (Registration, error)
	// Delete removes one registration; domain.ErrNotRegistered when absent.
	Delete(ctx context.Context, eventID, principalID string) error
	// ListForEvent returns registrations in submission (insertion) order.
	ListForEvent(ctx context.Context, eventID string) ([]Registration, error)
	// EventIDsForPrincipal supports is-registered flags on listings.
	EventIDsForPrincipal(ctx context.Context, principalID string) (map[string]bool, error)
	// DeleteForEvent removes all of an event's registrations, returning
	// how many were removed.
	DeleteForEvent(ctx context.Context, eventID string) (int, error)
}
