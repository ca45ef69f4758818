package announcements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campushub/internal/authz"
	"campushub/internal/clubs"
	"campushub/internal/domain"
	"campushub/internal/identity"
)

// ClubSource verifies that a referenced club exists.
type ClubSource interface {
	GetClub(ctx context.Context, id string) (clubs.Club, error)
}

// Definition is the payload for publishing an announcement.
type Definition struct {
	Title             string
	Content           string
	Category          string
	IsPinned          bool
	TargetDepartments []string
	Attachments       []Attachment
	ClubID            string
}

// Service owns announcement reads and writes. Listings are filtered by
// department targeting for everyone but admins.
type Service struct {
	store Store
	clubs ClubSource
	log   zerolog.Logger
	now   func() time.Time
}

// NewService wires an announcement service. now is injectable for tests.
func NewService(store Store, clubSource ClubSource, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, clubs: clubSource, log: log, now: now}
}

// Create publishes an announcement, campus-wide or under a club.
func (s *Service) Create(ctx context.Context, p identity.Principal, def Definition) (Announcement, error) {
	if !authz.Can(p, authz.CreateAnnouncement, authz.Resource{ClubID: def.ClubID}) {
		return Announcement{}, authz.Forbidden(authz.CreateAnnouncement)
	}
	if def.Title == "" {
		return Announcement{}, domain.InvalidPayload("title", "required")
	}
	if def.Content == "" {
		return Announcement{}, domain.InvalidPayload("content", "required")
	}
	if def.Category == "" {
		def.Category = "Notice"
	}
	if def.ClubID != "" {
		if _, err := s.clubs.GetClub(ctx, def.ClubID); err != nil {
			return Announcement{}, err
		}
	}

	a := Announcement{
		ID:                uuid.NewString(),
		Title:             def.Title,
		Content:           def.Content,
		Category:          def.Category,
		IsPinned:          def.IsPinned,
		TargetDepartments: def.TargetDepartments,
		Attachments:       def.Attachments,
		ClubID:            def.ClubID,
		CreatedBy:         p.UserID,
		PublishedAt:       s.now().UTC(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return Announcement{}, err
	}
	s.log.Info().Str("announcement_id", a.ID).Str("club_id", a.ClubID).Bool("pinned", a.IsPinned).Msg("announcement published")
	return a, nil
}

// Delete removes an announcement.
func (s *Service) Delete(ctx context.Context, p identity.Principal, id string) error {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Can(p, authz.DeleteAnnouncement, authz.Resource{OwnerID: a.CreatedBy, ClubID: a.ClubID}) {
		return authz.Forbidden(authz.DeleteAnnouncement)
	}
	return s.store.Delete(ctx, id)
}

// List returns announcements visible to the principal, pinned first,
// newest first. Admins see everything; everyone else sees untargeted
// announcements, announcements targeting their department, and their
// own.
func (s *Service) List(ctx context.Context, p identity.Principal, clubID string) ([]Announcement, error) {
	all, err := s.store.List(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if p.Role == identity.RoleAdmin {
		return all, nil
	}
	visible := all[:0:0]
	for _, a := range all {
		if a.VisibleTo(p.Department) || a.CreatedBy == p.UserID {
			visible = append(visible, a)
		}
	}
	return visible, nil
}
