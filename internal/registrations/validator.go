package registrations

import (
	"fmt"
	"time"

	"campushub/internal/domain"
	"campushub/internal/events"
	"campushub/internal/identity"
)

// Request is the caller-supplied registration payload before validation.
type Request struct {
	Name               string
	RegistrationNumber string
	Branch             string
	Section            string
	Contact            string

	TeamName string
	TeamSize int
	Members  []Member
}

// Validate checks the request against the event's participation rules.
// Preconditions run in a fixed order and the first failure wins:
// open, deadline, duplicate, department, year, payload shape.
// alreadyRegistered is the store's answer for (event, principal); the
// store re-checks it atomically at insert time, this check only exists
// to fail fast with the right error.
func Validate(e events.Event, p identity.Principal, req Request, now time.Time, alreadyRegistered bool) (Registration, error) {
	if !e.IsOpen {
		return Registration{}, domain.ErrEventClosed
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return Registration{}, domain.ErrDeadlinePassed
	}
	if alreadyRegistered {
		return Registration{}, domain.ErrAlreadyRegistered
	}
	if !e.OpenToDepartment(p.Department) {
		return Registration{}, domain.ErrNotEligibleDepartment
	}
	if !e.OpenToYear(p.Year) {
		return Registration{}, domain.ErrNotEligibleYear
	}

	if err := validateShape(e, req); err != nil {
		return Registration{}, err
	}

	reg := Registration{
		EventID:            e.ID,
		PrincipalID:        p.UserID,
		SubmittedAt:        now.UTC(),
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Branch:             req.Branch,
		Section:            req.Section,
		Contact:            req.Contact,
	}
	if e.Participation == events.Team {
		reg.TeamName = req.TeamName
		reg.TeamSize = req.TeamSize
		reg.Members = req.Members
	} else {
		reg.TeamSize = 1
	}
	return reg, nil
}

func validateShape(e events.Event, req Request) error {
	switch {
	case req.Name == "":
		return domain.InvalidPayload("name", "required")
	case req.RegistrationNumber == "":
		return domain.InvalidPayload("registrationNumber", "required")
	case req.Branch == "":
		return domain.InvalidPayload("branch", "required")
	case req.Section == "":
		return domain.InvalidPayload("section", "required")
	}

	if e.Participation == events.Individual {
		if req.TeamName != "" || len(req.Members) > 0 {
			return domain.InvalidPayload("teamName", "not allowed for individual events")
		}
		return nil
	}

	if req.TeamName == "" {
		return domain.InvalidPayload("teamName", "required for team events")
	}
	if req.TeamSize != 1+len(req.Members) {
		return domain.InvalidPayload("teamSize", fmt.Sprintf("must equal 1 + members (%d)", 1+len(req.Members)))
	}
	if req.TeamSize < e.MinTeamSize || req.TeamSize > e.MaxTeamSize {
		return domain.InvalidPayload("teamSize", fmt.Sprintf("must be between %d and %d", e.MinTeamSize, e.MaxTeamSize))
	}
	for i, m := range req.Members {
		switch {
		case m.Name == "":
			return domain.InvalidPayload(fmt.Sprintf("members[%d].name", i), "required")
		case m.RegistrationNumber == "":
			return domain.InvalidPayload(fmt.Sprintf("members[%d].registrationNumber", i), "required")
		case m.Branch == "":
			return domain.InvalidPayload(fmt.Sprintf("members[%d].branch", i), "required")
		case m.Section == "":
			return domain.InvalidPayload(fmt.Sprintf("members[%d].section", i), "required")
		}
	}
	return nil
}
