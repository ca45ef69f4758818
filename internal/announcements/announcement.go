// Package announcements delivers campus and club notices with optional
// department targeting.
package announcements

import "time"

// Attachment is a named link published with an announcement.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Announcement targets all departments when TargetDepartments is empty.
// ClubID is empty for campus-wide notices.
type Announcement struct {
	ID                string
	Title             string
	Content           string
	Category          string
	IsPinned          bool
	TargetDepartments []string
	Attachments       []Attachment
	ClubID            string
	CreatedBy         string
	PublishedAt       time.Time
}

// VisibleTo reports whether the announcement reaches the given
// department. An empty target list reaches everyone.
func (a Announcement) VisibleTo(department string) bool {
	if len(a.TargetDepartments) == 0 {
		return true
	}
	for _, d := range a.TargetDepartments {
		if d == department {
			return true
		}
	}
	return false
}
