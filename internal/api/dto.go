package api

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"campushub/internal/achievements"
	"campushub/internal/announcements"
	"campushub/internal/clubs"
	"campushub/internal/domain"
	"campushub/internal/events"
	"campushub/internal/identity"
	"campushub/internal/registrations"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("clubrole", func(fl validator.FieldLevel) bool {
			return identity.ValidClubRole(fl.Field().String())
		})
		_ = v.RegisterValidation("badge", func(fl validator.FieldLevel) bool {
			return fl.Field().String() == "" || achievements.ValidBadge(fl.Field().String())
		})
	}
}

type coordinatorDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type attachmentDTO struct {
	Name string `json:"name"`
	URL  string `json:"url" binding:"omitempty,url"`
}

type eventRequest struct {
	Title                string          `json:"title" binding:"required"`
	Description          string          `json:"description"`
	StartAt              string          `json:"startAt" binding:"required"`
	Venue                string          `json:"venue"`
	RegistrationDeadline string          `json:"registrationDeadline"`
	EventType            string          `json:"eventType"`
	ParticipationType    string          `json:"participationType"`
	MinTeamSize          int             `json:"minTeamSize"`
	MaxTeamSize          int             `json:"maxTeamSize"`
	PosterURL            string          `json:"posterUrl"`
	IsOpen               *bool           `json:"isOpen"`
	TargetDepartments    []string        `json:"targetDepartments"`
	TargetYears          []int           `json:"targetYears"`
	Coordinator          coordinatorDTO  `json:"coordinator"`
	Attachments          []attachmentDTO `json:"attachments"`
	ClubID               string          `json:"clubId"`
}

func (r eventRequest) definition() (events.Definition, error) {
	startAt, err := events.ParseInstant(r.StartAt)
	if err != nil {
		return events.Definition{}, domain.InvalidPayload("startAt", "invalid timestamp")
	}
	var deadline *time.Time
	if r.RegistrationDeadline != "" {
		d, err := events.ParseInstant(r.RegistrationDeadline)
		if err != nil {
			return events.Definition{}, domain.InvalidPayload("registrationDeadline", "invalid timestamp")
		}
		deadline = &d
	}
	atts := make([]events.Attachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		atts = append(atts, events.Attachment{Name: a.Name, URL: a.URL})
	}
	isOpen := true
	if r.IsOpen != nil {
		isOpen = *r.IsOpen
	}
	return events.Definition{
		Title:                r.Title,
		Description:          r.Description,
		StartAt:              startAt,
		Venue:                r.Venue,
		RegistrationDeadline: deadline,
		EventType:            r.EventType,
		Participation:        events.ParticipationType(r.ParticipationType),
		MinTeamSize:          r.MinTeamSize,
		MaxTeamSize:          r.MaxTeamSize,
		PosterURL:            r.PosterURL,
		IsOpen:               isOpen,
		TargetDepartments:    r.TargetDepartments,
		TargetYears:          r.TargetYears,
		Coordinator:          events.Coordinator{Name: r.Coordinator.Name, Phone: r.Coordinator.Phone, Email: r.Coordinator.Email},
		Attachments:          atts,
		ClubID:               r.ClubID,
	}, nil
}

type eventResponse struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	StartAt              string          `json:"startAt"`
	Venue                string          `json:"venue"`
	RegistrationDeadline *string         `json:"registrationDeadline,omitempty"`
	EventType            string          `json:"eventType"`
	ParticipationType    string          `json:"participationType"`
	MinTeamSize          int             `json:"minTeamSize"`
	MaxTeamSize          int             `json:"maxTeamSize"`
	PosterURL            string          `json:"posterUrl,omitempty"`
	IsOpen               bool            `json:"isOpen"`
	TargetDepartments    []string        `json:"targetDepartments"`
	TargetYears          []int           `json:"targetYears"`
	Coordinator          coordinatorDTO  `json:"coordinator"`
	Attachments          []attachmentDTO `json:"attachments"`
	CreatedBy            string          `json:"createdBy"`
	ClubID               string          `json:"clubId,omitempty"`
	RegistrationCount    int             `json:"registrationCount"`
	CreatedAt            string          `json:"createdAt"`
	IsRegistered         bool            `json:"isRegistered"`
}

func toEventResponse(e events.Event, registered bool) eventResponse {
	var deadline *string
	if e.RegistrationDeadline != nil {
		s := e.RegistrationDeadline.UTC().Format(time.RFC3339)
		deadline = &s
	}
	atts := make([]attachmentDTO, 0, len(e.Attachments))
	for _, a := range e.Attachments {
		atts = append(atts, attachmentDTO{Name: a.Name, URL: a.URL})
	}
	return eventResponse{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		StartAt:              e.StartAt.UTC().Format(time.RFC3339),
		Venue:                e.Venue,
		RegistrationDeadline: deadline,
		EventType:            e.EventType,
		ParticipationType:    string(e.Participation),
		MinTeamSize:          e.MinTeamSize,
		MaxTeamSize:          e.MaxTeamSize,
		PosterURL:            e.PosterURL,
		IsOpen:               e.IsOpen,
		TargetDepartments:    emptyIfNil(e.TargetDepartments),
		TargetYears:          emptyIfNil(e.TargetYears),
		Coordinator:          coordinatorDTO{Name: e.Coordinator.Name, Phone: e.Coordinator.Phone, Email: e.Coordinator.Email},
		Attachments:          atts,
		CreatedBy:            e.CreatedBy,
		ClubID:               e.ClubID,
		RegistrationCount:    e.RegistrationCount,
		CreatedAt:            e.CreatedAt.UTC().Format(time.RFC3339),
		IsRegistered:         registered,
	}
}

type memberDTO struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	Branch             string `json:"branch" binding:"required"`
	Section            string `json:"section" binding:"required"`
}

type registrationRequest struct {
	Name               string      `json:"name" binding:"required"`
	RegistrationNumber string      `json:"registrationNumber" binding:"required"`
	Branch             string      `json:"branch" binding:"required"`
	Section            string      `json:"section" binding:"required"`
	Contact            string      `json:"contact"`
	TeamName           string      `json:"teamName"`
	TeamSize           int         `json:"teamSize"`
	Members            []memberDTO `json:"members"`
}

func (r registrationRequest) toRequest() registrations.Request {
	members := make([]registrations.Member, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, registrations.Member{
			Name:               m.Name,
			RegistrationNumber: m.RegistrationNumber,
			Branch:             m.Branch,
			Section:            m.Section,
		})
	}
	return registrations.Request{
		Name:               r.Name,
		RegistrationNumber: r.RegistrationNumber,
		Branch:             r.Branch,
		Section:            r.Section,
		Contact:            r.Contact,
		TeamName:           r.TeamName,
		TeamSize:           r.TeamSize,
		Members:            members,
	}
}

type registrationResponse struct {
	ID                 string      `json:"id"`
	EventID            string      `json:"eventId"`
	SubmittedAt        string      `json:"submittedAt"`
	Name               string      `json:"name"`
	RegistrationNumber string      `json:"registrationNumber"`
	Branch             string      `json:"branch"`
	Section            string      `json:"section"`
	Contact            string      `json:"contact,omitempty"`
	TeamName           string      `json:"teamName,omitempty"`
	TeamSize           int         `json:"teamSize"`
	Members            []memberDTO `json:"members,omitempty"`
}

func toRegistrationResponse(r registrations.Registration) registrationResponse {
	members := make([]memberDTO, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, memberDTO{
			Name:               m.Name,
			RegistrationNumber: m.RegistrationNumber,
			Branch:             m.Branch,
			Section:            m.Section,
		})
	}
	return registrationResponse{
		ID:                 r.ID,
		EventID:            r.EventID,
		SubmittedAt:        r.SubmittedAt.UTC().Format(time.RFC3339),
		Name:               r.Name,
		RegistrationNumber: r.RegistrationNumber,
		Branch:             r.Branch,
		Section:            r.Section,
		Contact:            r.Contact,
		TeamName:           r.TeamName,
		TeamSize:           r.TeamSize,
		Members:            members,
	}
}

type clubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	LeadUserID  string `json:"leadUserId"`
}

type clubResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MemberCount int    `json:"memberCount"`
	MyRole      string `json:"myRole,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func toClubResponse(s clubs.Summary) clubResponse {
	return clubResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		MemberCount: s.MemberCount,
		MyRole:      string(s.MyRole),
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type membershipResponse struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

type roleChangeRequest struct {
	Role string `json:"role" binding:"required,clubrole"`
}

type achievementRequest struct {
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	Badge             string `json:"badge" binding:"badge"`
	StudentID         string `json:"studentId" binding:"required"`
	EventID           string `json:"eventId"`
	ExternalEventName string `json:"externalEventName"`
}

type achievementResponse struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Badge             string `json:"badge"`
	StudentID         string `json:"studentId"`
	EventID           string `json:"eventId,omitempty"`
	ExternalEventName string `json:"externalEventName,omitempty"`
	CreatedBy         string `json:"createdBy"`
	CreatedAt         string `json:"createdAt"`
}

func toAchievementResponse(a achievements.Achievement) achievementResponse {
	return achievementResponse{
		ID:                a.ID,
		Title:             a.Title,
		Description:       a.Description,
		Category:          a.Category,
		Badge:             string(a.Badge),
		StudentID:         a.StudentID,
		EventID:           a.EventID,
		ExternalEventName: a.ExternalEventName,
		CreatedBy:         a.CreatedBy,
		CreatedAt:         a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type announcementRequest struct {
	Title             string          `json:"title" binding:"required"`
	Content           string          `json:"content" binding:"required"`
	Category          string          `json:"category"`
	IsPinned          bool            `json:"isPinned"`
	TargetDepartments []string        `json:"targetDepartments"`
	Attachments       []attachmentDTO `json:"attachments"`
	ClubID            string          `json:"clubId"`
}

type announcementResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Content           string          `json:"content"`
	Category          string          `json:"category"`
	IsPinned          bool            `json:"isPinned"`
	TargetDepartments []string        `json:"targetDepartments"`
	Attachments       []attachmentDTO `json:"attachments"`
	ClubID            string          `json:"clubId,omitempty"`
	CreatedBy         string          `json:"createdBy"`
	PublishedAt       string          `json:"publishedAt"`
}

func toAnnouncementResponse(a announcements.Announcement) announcementResponse {
	atts := make([]attachmentDTO, 0, len(a.Attachments))
	for _, att := range a.Attachments {
		atts = append(atts, attachmentDTO{Name: att.Name, URL: att.URL})
	}
	return announcementResponse{
		ID:                a.ID,
		Title:             a.Title,
		Content:           a.Content,
		Category:          a.Category,
		IsPinned:          a.IsPinned,
		TargetDepartments: emptyIfNil(a.TargetDepartments),
		Attachments:       atts,
		ClubID:            a.ClubID,
		CreatedBy:         a.CreatedBy,
		PublishedAt:       a.PublishedAt.UTC().Format(time.RFC3339),
	}
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
