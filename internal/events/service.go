package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campushub/internal/authz"
	"campushub/internal/domain"
	"campushub/internal/identity"
)

// AchievementRefs reports how many achievements reference an event.
// Deletion is refused while any exist.
type AchievementRefs interface {
	CountForEvent(ctx context.Context, eventID string) (int, error)
}

// RegistrationPurger removes an event's registrations when the event is
// deleted.
type RegistrationPurger interface {
	DeleteForEvent(ctx context.Context, eventID string) (int, error)
}

// Service owns the event lifecycle. Every mutating operation passes
// through the authorization policy exactly once.
type Service struct {
	store         Store
	achievements  AchievementRefs
	registrations RegistrationPurger
	log           zerolog.Logger
	now           func() time.Time
}

// NewService wires an event service. now is injectable for tests; nil
// means wall clock.
func NewService(store Store, achievements AchievementRefs, registrations RegistrationPurger, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		store:         store,
		achievements:  achievements,
		registrations: registrations,
		log:           log,
		now:           now,
	}
}

// Definition carries the caller-editable fields of an event.
type Definition struct {
	Title                string
	Description          string
	StartAt              time.Time
	Venue                string
	RegistrationDeadline *time.Time
	EventType            string
	Participation        ParticipationType
	MinTeamSize          int
	MaxTeamSize          int
	PosterURL            string
	IsOpen               bool
	TargetDepartments    []string
	TargetYears          []int
	Coordinator          Coordinator
	Attachments          []Attachment
	ClubID               string
}

// Create validates the definition and persists a new event.
func (s *Service) Create(ctx context.Context, p identity.Principal, def Definition) (Event, error) {
	if !authz.Can(p, authz.CreateEvent, authz.Resource{ClubID: def.ClubID}) {
		return Event{}, authz.Forbidden(authz.CreateEvent)
	}
	if err := normalizeDefinition(&def); err != nil {
		return Event{}, err
	}

	e := Event{
		ID:                   uuid.NewString(),
		Title:                def.Title,
		Description:          def.Description,
		StartAt:              def.StartAt.UTC(),
		Venue:                def.Venue,
		RegistrationDeadline: def.RegistrationDeadline,
		EventType:            def.EventType,
		Participation:        def.Participation,
		MinTeamSize:          def.MinTeamSize,
		MaxTeamSize:          def.MaxTeamSize,
		PosterURL:            def.PosterURL,
		IsOpen:               def.IsOpen,
		TargetDepartments:    def.TargetDepartments,
		TargetYears:          def.TargetYears,
		Coordinator:          def.Coordinator,
		Attachments:          def.Attachments,
		CreatedBy:            p.UserID,
		ClubID:               def.ClubID,
		CreatedAt:            s.now(),
	}
	if err := s.store.Create(ctx, e); err != nil {
		return Event{}, err
	}
	s.log.Info().Str("event_id", e.ID).Str("club_id", e.ClubID).Str("created_by", p.UserID).Msg("event created")
	return e, nil
}

// Update replaces the editable fields. Last writer wins; no locking
// beyond the store's own.
func (s *Service) Update(ctx context.Context, p identity.Principal, id string, def Definition) (Event, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if !authz.Can(p, authz.EditEvent, authz.Resource{OwnerID: current.CreatedBy, ClubID: current.ClubID}) {
		return Event{}, authz.Forbidden(authz.EditEvent)
	}
	def.ClubID = current.ClubID
	if err := normalizeDefinition(&def); err != nil {
		return Event{}, err
	}

	updated := current
	updated.Title = def.Title
	updated.Description = def.Description
	updated.StartAt = def.StartAt.UTC()
	updated.Venue = def.Venue
	updated.RegistrationDeadline = def.RegistrationDeadline
	updated.EventType = def.EventType
	updated.Participation = def.Participation
	updated.MinTeamSize = def.MinTeamSize
	updated.MaxTeamSize = def.MaxTeamSize
	updated.PosterURL = def.PosterURL
	updated.IsOpen = def.IsOpen
	updated.TargetDepartments = def.TargetDepartments
	updated.TargetYears = def.TargetYears
	updated.Coordinator = def.Coordinator
	updated.Attachments = def.Attachments

	if err := s.store.Update(ctx, updated); err != nil {
		return Event{}, err
	}
	return updated, nil
}

// Delete removes an event and cascades its registrations. Events with
// achievements attached are refused with ErrConflict: achievements are
// immutable records of merit.
func (s *Service) Delete(ctx context.Context, p identity.Principal, id string) error {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Can(p, authz.DeleteEvent, authz.Resource{OwnerID: e.CreatedBy, ClubID: e.ClubID}) {
		return authz.Forbidden(authz.DeleteEvent)
	}
	if s.achievements != nil {
		n, err := s.achievements.CountForEvent(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrConflict
		}
	}
	removed := 0
	if s.registrations != nil {
		if removed, err = s.registrations.DeleteForEvent(ctx, id); err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("event_id", id).Int("registrations_removed", removed).Msg("event deleted")
	return nil
}

// Get returns a single event.
func (s *Service) Get(ctx context.Context, id string) (Event, error) {
	return s.store.Get(ctx, id)
}

// Listing partitions the event set at query time.
type Listing struct {
	Active   []Event
	Archived []Event
}

// List returns the caller-visible events bucketed by phase. Students see
// only events whose targeting admits them; staff see everything.
func (s *Service) List(ctx context.Context, p identity.Principal, clubID string) (Listing, error) {
	all, err := s.store.List(ctx, clubID)
	if err != nil {
		return Listing{}, err
	}
	visible := all
	if p.Role == identity.RoleStudent {
		visible = visible[:0:0]
		for _, e := range all {
			if e.OpenToDepartment(p.Department) && e.OpenToYear(p.Year) {
				visible = append(visible, e)
			}
		}
	}
	active, archived := Partition(visible, s.now())
	return Listing{Active: active, Archived: archived}, nil
}

func normalizeDefinition(def *Definition) error {
	if def.Title == "" {
		return domain.InvalidPayload("title", "required")
	}
	if def.StartAt.IsZero() {
		return domain.InvalidPayload("startAt", "required")
	}
	if def.EventType == "" {
		def.EventType = "Event"
	}
	switch def.Participation {
	case "":
		def.Participation = Individual
	case Individual, Team:
	default:
		return domain.InvalidPayload("participationType", "must be individual or team")
	}
	if def.Participation == Individual {
		def.MinTeamSize, def.MaxTeamSize = 1, 1
	} else {
		if def.MinTeamSize < 1 {
			return domain.InvalidPayload("minTeamSize", "must be at least 1")
		}
		if def.MaxTeamSize < def.MinTeamSize {
			return domain.InvalidPayload("maxTeamSize", "must be at least minTeamSize")
		}
	}
	for _, y := range def.TargetYears {
		if y < 1 || y > 4 {
			return domain.InvalidPayload("targetYears", "years must be between 1 and 4")
		}
	}
	if def.RegistrationDeadline != nil {
		t := def.RegistrationDeadline.UTC()
		def.RegistrationDeadline = &t
	}
	return nil
}
