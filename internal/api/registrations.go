package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRegister(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reg, err := s.registrations.Register(c.Request.Context(), p, c.Param("id"), req.toRequest())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRegistrationResponse(reg))
}

func (s *Server) handleUnregisterSelf(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := s.registrations.Unregister(c.Request.Context(), p, c.Param("id"), ""); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleUnregister withdraws another principal's registration; the
// service restricts this to staff.
func (s *Server) handleUnregister(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := s.registrations.Unregister(c.Request.Context(), p, c.Param("id"), c.Param("principalId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListRegistrations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	regs, err := s.registrations.List(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	res := make([]registrationResponse, 0, len(regs))
	for _, r := range regs {
		res = append(res, toRegistrationResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"registrations": res})
}

func (s *Server) handleExportRegistrations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filename, data, err := s.registrations.Export(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

func (s *Server) handleMyRegistrations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	ids, err := s.registrations.RegisteredEventIDs(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	eventIDs := make([]string, 0, len(ids))
	for id := range ids {
		eventIDs = append(eventIDs, id)
	}
	c.JSON(http.StatusOK, gin.H{"eventIds": eventIDs})
}
