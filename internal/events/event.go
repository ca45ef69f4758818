package events

import "time"

// ParticipationType distinguishes solo events from team events.
type ParticipationType string

const (
	Individual ParticipationType = "individual"
	Team       ParticipationType = "team"
)

// Attachment is a named link to an uploaded file. The core stores only
// the URL handed back by the upload collaborator, never bytes.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Coordinator is the contact printed on the event page.
type Coordinator struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Event is a campus-wide or club-scoped activity. ClubID is empty for
// campus-wide events. Team size bounds are meaningful only when
// Participation is Team; Individual events carry min = max = 1.
type Event struct {
	ID                   string
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
	CreatedBy            string
	ClubID               string
	RegistrationCount    int
	CreatedAt            time.Time
}

// OpenToDepartment reports whether the department passes the event's
// targeting. An empty target set admits everyone.
func (e Event) OpenToDepartment(dept string) bool {
	if len(e.TargetDepartments) == 0 {
		return true
	}
	for _, d := range e.TargetDepartments {
		if d == dept {
			return true
		}
	}
	return false
}

// OpenToYear reports whether the study year passes the event's targeting.
func (e Event) OpenToYear(year int) bool {
	if len(e.TargetYears) == 0 {
		return true
	}
	for _, y := range e.TargetYears {
		if y == year {
			return true
		}
	}
	return false
}
