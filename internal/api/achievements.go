package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/achievements"
)

func (s *Server) handleCreateAchievement(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := s.achievements.Create(c.Request.Context(), p, achievements.Definition{
		Title:             req.Title,
		Description:       req.Description,
		Badge:             req.Badge,
		StudentID:         req.StudentID,
		EventID:           req.EventID,
		ExternalEventName: req.ExternalEventName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAchievementResponse(a))
}

// handleListAchievements supports ?studentId=, ?eventId= and ?badge=
// filters, combined with AND.
func (s *Server) handleListAchievements(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	list, err := s.achievements.List(c.Request.Context(), achievements.Filter{
		StudentID: c.Query("studentId"),
		EventID:   c.Query("eventId"),
		Badge:     achievements.Badge(c.Query("badge")),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	res := make([]achievementResponse, 0, len(list))
	for _, a := range list {
		res = append(res, toAchievementResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"achievements": res})
}

func (s *Server) handleDeleteAchievement(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := s.achievements.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
