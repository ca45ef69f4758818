package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campushub/internal/authz"
	"campushub/internal/domain"
	"campushub/internal/events"
	"campushub/internal/identity"
	"campushub/internal/queue"
)

// EventSource resolves events for validation and authorization.
type EventSource interface {
	Get(ctx context.Context, id string) (events.Event, error)
}

// Notice is the queue message published after a successful registration.
// The worker turns it into an email.
type Notice struct {
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	Registrant string `json:"registrant"`
	Contact    string `json:"contact"`
	TeamName   string `json:"team_name,omitempty"`
}

// Service coordinates registration writes. The store settles duplicate
// races; the service translates outcomes into the error taxonomy.
type Service struct {
	store  Store
	events EventSource
	queue  queue.Queue
	log    zerolog.Logger
	now    func() time.Time
}

// NewService wires a registration service. queue may be nil when
// notifications are disabled; now is injectable for tests.
func NewService(store Store, eventSource EventSource, q queue.Queue, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, events: eventSource, queue: q, log: log, now: now}
}

// Register validates and persists a registration for the principal.
// Two concurrent calls for the same (event, principal) end with exactly
// one stored row; the loser receives domain.ErrConflict.
func (s *Service) Register(ctx context.Context, p identity.Principal, eventID string, req Request) (Registration, error) {
	if !authz.Can(p, authz.Register, authz.Resource{}) {
		return Registration{}, authz.Forbidden(authz.Register)
	}
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return Registration{}, err
	}

	exists := true
	if _, err := s.store.Get(ctx, eventID, p.UserID); err != nil {
		if !errors.Is(err, domain.ErrNotRegistered) {
			return Registration{}, err
		}
		exists = false
	}

	reg, err := Validate(e, p, req, s.now(), exists)
	if err != nil {
		return Registration{}, err
	}
	reg.ID = uuid.NewString()

	if err := s.store.Insert(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			registrationConflicts.Inc()
		}
		return Registration{}, err
	}
	registrationsTotal.Inc()
	s.log.Info().Str("event_id", eventID).Str("principal_id", p.UserID).Bool("team", reg.IsTeam()).Msg("registration accepted")

	s.publishNotice(ctx, e, reg)
	return reg, nil
}

// Unregister withdraws a registration. A student may withdraw only their
// own registration and only before the deadline; staff may withdraw any
// registration at any time. Calling it again yields ErrNotRegistered,
// never a failure of another principal's row.
func (s *Service) Unregister(ctx context.Context, p identity.Principal, eventID, principalID string) error {
	if principalID == "" {
		principalID = p.UserID
	}
	if !authz.Can(p, authz.Unregister, authz.Resource{}) {
		return authz.Forbidden(authz.Unregister)
	}
	if p.Role == identity.RoleStudent {
		if principalID != p.UserID {
			return authz.Forbidden(authz.Unregister)
		}
		e, err := s.events.Get(ctx, eventID)
		if err != nil {
			return err
		}
		if e.RegistrationDeadline != nil && s.now().After(*e.RegistrationDeadline) {
			return domain.ErrDeadlinePassed
		}
	}
	if err := s.store.Delete(ctx, eventID, principalID); err != nil {
		return err
	}
	withdrawalsTotal.Inc()
	s.log.Info().Str("event_id", eventID).Str("principal_id", principalID).Str("by", p.UserID).Msg("registration withdrawn")
	return nil
}

// List returns an event's registrations in submission order. Visibility
// is coupled to management authority over the event.
func (s *Service) List(ctx context.Context, p identity.Principal, eventID string) ([]Registration, error) {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(p, authz.ViewRegistrations, authz.Resource{OwnerID: e.CreatedBy, ClubID: e.ClubID}) {
		return nil, authz.Forbidden(authz.ViewRegistrations)
	}
	return s.store.ListForEvent(ctx, eventID)
}

// Export renders an event's registrations as CSV, returning the
// download filename alongside the payload.
func (s *Service) Export(ctx context.Context, p identity.Principal, eventID string) (string, []byte, error) {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return "", nil, err
	}
	if !authz.Can(p, authz.ExportRegistrations, authz.Resource{OwnerID: e.CreatedBy, ClubID: e.ClubID}) {
		return "", nil, authz.Forbidden(authz.ExportRegistrations)
	}
	regs, err := s.store.ListForEvent(ctx, eventID)
	if err != nil {
		return "", nil, err
	}
	out, err := ExportCSV(regs)
	if err != nil {
		return "", nil, err
	}
	return ExportFilename(e.Title), out, nil
}

// RegisteredEventIDs reports which events the principal has registered
// for, keyed by event ID.
func (s *Service) RegisteredEventIDs(ctx context.Context, principalID string) (map[string]bool, error) {
	return s.store.EventIDsForPrincipal(ctx, principalID)
}

// DeleteForEvent cascades a deleted event's registrations. Exposed so
// the event service can purge without knowing the store.
func (s *Service) DeleteForEvent(ctx context.Context, eventID string) (int, error) {
	return s.store.DeleteForEvent(ctx, eventID)
}

func (s *Service) publishNotice(ctx context.Context, e events.Event, reg Registration) {
	if s.queue == nil {
		return
	}
	body, err := json.Marshal(Notice{
		EventID:    e.ID,
		EventTitle: e.Title,
		Registrant: reg.Name,
		Contact:    reg.Contact,
		TeamName:   reg.TeamName,
	})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, queue.Message{Type: queue.TypeRegistration, Body: body}); err != nil {
		s.log.Warn().Err(err).Str("event_id", e.ID).Msg("notification publish failed")
	}
}
