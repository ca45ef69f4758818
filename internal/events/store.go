package events

import "context"

// Store persists events. Implementations return domain.ErrNotFound for
// missing IDs. Delete cascades the event's registrations.
type Store interface {
	Create(ctx context.Context, e Event) error
	Get(ctx context.Context, id string) (Event, error)
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
	// List returns campus-wide events when clubID is empty, otherwise the
	// club's events.
	List(ctx context.Context, clubID string) ([]Event, error)
}
