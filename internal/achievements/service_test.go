package achievements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"campushub/internal/authz"
	"campushub/internal/domain"
	"campushub/internal/events"
	"campushub/internal/identity"
)

type fakeEventSource struct {
	known map[string]bool
}

func (f *fakeEventSource) Get(ctx context.Context, id string) (events.Event, error) {
	if !f.known[id] {
		return events.Event{}, domain.ErrNotFound
	}
	return events.Event{ID: id}, nil
}

func newTestService(t *testing.T, eventIDs ...string) (*Service, *MemoryStore) {
	t.Helper()
	src := &fakeEventSource{known: make(map[string]bool)}
	for _, id := range eventIDs {
		src.known[id] = true
	}
	store := NewMemoryStore()
	clock := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	svc := NewService(store, src, zerolog.Nop(), func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	return svc, store
}

var faculty = identity.Principal{UserID: "f1", Role: identity.RoleFaculty}

func TestCreateInternal(t *testing.T) {
	svc, _ := newTestService(t, "ev1")

	a, err := svc.Create(context.Background(), faculty, Definition{
		Title:     "First Place",
		StudentID: "s1",
		EventID:   "ev1",
		Badge:     "Silver",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Category != CategoryInternal || a.Badge != BadgeSilver || a.CreatedBy != "f1" {
		t.Fatalf("achievement = %+v", a)
	}

	n, err := svc.CountForEvent(context.Background(), "ev1")
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
}

func TestCreateExternal(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.Create(context.Background(), faculty, Definition{
		Title:             "Hackathon Winner",
		StudentID:         "s1",
		ExternalEventName: "Smart India Hackathon",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Category != CategoryExternal || a.Badge != BadgeGold {
		t.Fatalf("achievement = %+v", a)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t, "ev1")

	cases := []struct {
		name  string
		def   Definition
		field string
	}{
		{"missing title", Definition{StudentID: "s1", EventID: "ev1"}, "title"},
		{"missing student", Definition{Title: "T", EventID: "ev1"}, "studentId"},
		{"neither source", Definition{Title: "T", StudentID: "s1"}, "eventId"},
		{"both sources", Definition{Title: "T", StudentID: "s1", EventID: "ev1", ExternalEventName: "X"}, "eventId"},
		{"bad badge", Definition{Title: "T", StudentID: "s1", EventID: "ev1", Badge: "Platinum"}, "badge"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), faculty, tc.def)
			var ipe domain.InvalidPayloadError
			if !errors.As(err, &ipe) || ipe.Field != tc.field {
				t.Fatalf("got %v, want InvalidPayload(%s)", err, tc.field)
			}
		})
	}

	// a referenced event must exist
	_, err := svc.Create(context.Background(), faculty, Definition{Title: "T", StudentID: "s1", EventID: "ghost"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown event: got %v", err)
	}

	// students cannot record achievements
	student := identity.Principal{UserID: "s1", Role: identity.RoleStudent}
	_, err = svc.Create(context.Background(), student, Definition{Title: "T", StudentID: "s1", EventID: "ev1"})
	var fe authz.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("student create: got %v", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc, _ := newTestService(t, "ev1")

	a, err := svc.Create(context.Background(), faculty, Definition{Title: "T", StudentID: "s1", EventID: "ev1"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	otherFaculty := identity.Principal{UserID: "f2", Role: identity.RoleFaculty}
	var fe authz.ForbiddenError
	if err := svc.Delete(context.Background(), otherFaculty, a.ID); !errors.As(err, &fe) {
		t.Fatalf("non-owner delete: got %v", err)
	}
	if err := svc.Delete(context.Background(), faculty, a.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(context.Background(), faculty, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("repeat delete: got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t, "ev1", "ev2")

	seed := []Definition{
		{Title: "A", StudentID: "s1", EventID: "ev1", Badge: "Gold"},
		{Title: "B", StudentID: "s1", EventID: "ev2", Badge: "Bronze"},
		{Title: "C", StudentID: "s2", EventID: "ev1", Badge: "Gold"},
	}
	for _, d := range seed {
		if _, err := svc.Create(context.Background(), faculty, d); err != nil {
			t.Fatalf("seed %s: %v", d.Title, err)
		}
	}

	byStudent, err := svc.List(context.Background(), Filter{StudentID: "s1"})
	if err != nil || len(byStudent) != 2 {
		t.Fatalf("by student = %d, %v", len(byStudent), err)
	}
	// newest first
	if byStudent[0].Title != "B" || byStudent[1].Title != "A" {
		t.Fatalf("order = %s, %s", byStudent[0].Title, byStudent[1].Title)
	}

	byEvent, err := svc.List(context.Background(), Filter{EventID: "ev1"})
	if err != nil || len(byEvent) != 2 {
		t.Fatalf("by event = %d, %v", len(byEvent), err)
	}

	byBadge, err := svc.List(context.Background(), Filter{Badge: BadgeBronze})
	if err != nil || len(byBadge) != 1 || byBadge[0].Title != "B" {
		t.Fatalf("by badge = %v, %v", byBadge, err)
	}

	combined, err := svc.List(context.Background(), Filter{StudentID: "s1", EventID: "ev1"})
	if err != nil || len(combined) != 1 || combined[0].Title != "A" {
		t.Fatalf("combined = %v, %v", combined, err)
	}
}
