package achievements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campushub/internal/authz"
	"campushub/internal/domain"
	"campushub/internal/events"
	"campushub/internal/identity"
)

// EventSource verifies that a referenced event exists.
type EventSource interface {
	Get(ctx context.Context, id string) (events.Event, error)
}

// Definition is the payload for recording an achievement. Exactly one
// of EventID and ExternalEventName must be set.
type Definition struct {
	Title             string
	Description       string
	Badge             string
	StudentID         string
	EventID           string
	ExternalEventName string
}

// Service owns achievement writes. It implements the reference count
// the event service consults before a deletion.
type Service struct {
	store  Store
	events EventSource
	log    zerolog.Logger
	now    func() time.Time
}

// NewService wires an achievement service. now is injectable for tests.
func NewService(store Store, eventSource EventSource, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, events: eventSource, log: log, now: now}
}

// Create records an achievement for a student.
func (s *Service) Create(ctx context.Context, p identity.Principal, def Definition) (Achievement, error) {
	if !authz.Can(p, authz.CreateAchievement, authz.Resource{}) {
		return Achievement{}, authz.Forbidden(authz.CreateAchievement)
	}
	if def.Title == "" {
		return Achievement{}, domain.InvalidPayload("title", "required")
	}
	if def.StudentID == "" {
		return Achievement{}, domain.InvalidPayload("studentId", "required")
	}
	if def.Badge == "" {
		def.Badge = string(BadgeGold)
	}
	if !ValidBadge(def.Badge) {
		return Achievement{}, domain.InvalidPayload("badge", "must be Gold, Silver or Bronze")
	}
	if (def.EventID == "") == (def.ExternalEventName == "") {
		return Achievement{}, domain.InvalidPayload("eventId", "exactly one of eventId and externalEventName required")
	}

	category := CategoryExternal
	if def.EventID != "" {
		if _, err := s.events.Get(ctx, def.EventID); err != nil {
			return Achievement{}, err
		}
		category = CategoryInternal
	}

	a := Achievement{
		ID:                uuid.NewString(),
		Title:             def.Title,
		Description:       def.Description,
		Category:          category,
		Badge:             Badge(def.Badge),
		StudentID:         def.StudentID,
		EventID:           def.EventID,
		ExternalEventName: def.ExternalEventName,
		CreatedBy:         p.UserID,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return Achievement{}, err
	}
	s.log.Info().Str("achievement_id", a.ID).Str("student_id", a.StudentID).Str("badge", string(a.Badge)).Msg("achievement recorded")
	return a, nil
}

// Delete removes an achievement. Admins may delete any, others only
// their own.
func (s *Service) Delete(ctx context.Context, p identity.Principal, id string) error {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Can(p, authz.DeleteAchievement, authz.Resource{OwnerID: a.CreatedBy}) {
		return authz.Forbidden(authz.DeleteAchievement)
	}
	return s.store.Delete(ctx, id)
}

// List returns achievements matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Achievement, error) {
	return s.store.List(ctx, f)
}

// CountForEvent implements the event service's reference check.
func (s *Service) CountForEvent(ctx context.Context, eventID string) (int, error) {
	return s.store.CountForEvent(ctx, eventID)
}
