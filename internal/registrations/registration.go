package registrations

import "time"

// Member is one additional team participant beyond the registering lead.
type Member struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Branch             string `json:"branch"`
	Section            string `json:"section"`
}

// Registration is immutable once created. Individual registrations carry
// the student snapshot fields; team registrations additionally carry the
// team name, size and member list. TeamSize counts the lead, so
// TeamSize == 1 + len(Members) always holds for stored rows.
type Registration struct {
	ID          string
	EventID     string
	PrincipalID string
	SubmittedAt time.Time

	Name               string
	RegistrationNumber string
	Branch             string
	Section            string
	Contact            string

	TeamName string
	TeamSize int
	Members  []Member
}

// IsTeam reports whether the registration carries a team payload.
func (r Registration) IsTeam() bool { return r.TeamName != "" }
