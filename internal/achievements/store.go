package achievements

import "context"

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	StudentID string
	EventID   string
	Badge     Badge
}

// Store persists achievements.
type Store interface {
	Create(ctx context.Context, a Achievement) error
	Get(ctx context.Context, id string) (Achievement, error)
	Delete(ctx context.Context, id string) error
	// List returns achievements newest first.
	List(ctx context.Context, f Filter) ([]Achievement, error)
	CountForEvent(ctx context.Context, eventID string) (int, error)
}
