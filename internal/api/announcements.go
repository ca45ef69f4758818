package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/announcements"
)

func (s *Server) handleCreateAnnouncement(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	atts := make([]announcements.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		atts = append(atts, announcements.Attachment{Name: a.Name, URL: a.URL})
	}
	a, err := s.announcements.Create(c.Request.Context(), p, announcements.Definition{
		Title:             req.Title,
		Content:           req.Content,
		Category:          req.Category,
		IsPinned:          req.IsPinned,
		TargetDepartments: req.TargetDepartments,
		Attachments:       atts,
		ClubID:            req.ClubID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAnnouncementResponse(a))
}

// handleListAnnouncements returns the notices visible to the caller,
// pinned first. ?clubId= scopes to a club's board.
func (s *Server) handleListAnnouncements(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := s.announcements.List(c.Request.Context(), p, c.Query("clubId"))
	if err != nil {
		writeError(c, err)
		return
	}
	res := make([]announcementResponse, 0, len(list))
	for _, a := range list {
		res = append(res, toAnnouncementResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"announcements": res})
}

func (s *Server) handleDeleteAnnouncement(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := s.announcements.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
