package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campushub/internal/clubs"
	"campushub/internal/identity"
)

func (s *Server) handleCreateClub(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req clubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	club, err := s.clubs.Create(c.Request.Context(), p, clubs.Definition{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		LeadUserID:  req.LeadUserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toClubResponse(clubs.Summary{Club: club}))
}

func (s *Server) handleListClubs(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	summaries, err := s.clubs.List(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	res := make([]clubResponse, 0, len(summaries))
	for _, sum := range summaries {
		res = append(res, toClubResponse(sum))
	}
	c.JSON(http.StatusOK, gin.H{"clubs": res})
}

func (s *Server) handleGetClub(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sum, err := s.clubs.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClubResponse(sum))
}

func (s *Server) handleJoinClub(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := s.clubs.Join(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLeaveClub(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := s.clubs.Leave(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListMembers(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	members, err := s.clubs.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	res := make([]membershipResponse, 0, len(members))
	for _, m := range members {
		res = append(res, membershipResponse{
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"members": res})
}

func (s *Server) handleChangeMemberRole(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req roleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.clubs.ChangeMemberRole(c.Request.Context(), p, c.Param("id"), c.Param("userId"), identity.ClubRole(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
