package announcements

import "context"

// Store persists announcements.
type Store interface {
	Create(ctx context.Context, a Announcement) error
	Get(ctx context.Context, id string) (Announcement, error)
	Delete(ctx context.Context, id string) error
	// List returns announcements pinned first, then newest first.
	// clubID "" selects campus-wide notices.
	List(ctx context.Context, clubID string) ([]Announcement, error)
}
