package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/events"
	"campushub/internal/identity"
)

func (s *Server) handleCreateEvent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def, err := req.definition()
	if err != nil {
		writeError(c, err)
		return
	}
	e, err := s.events.Create(c.Request.Context(), p, def)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(e, false))
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def, err := req.definition()
	if err != nil {
		writeError(c, err)
		return
	}
	e, err := s.events.Update(c.Request.Context(), p, c.Param("id"), def)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(e, false))
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := s.events.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetEvent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	e, err := s.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	registered := false
	if p.Role == identity.RoleStudent {
		ids, err := s.registrations.RegisteredEventIDs(c.Request.Context(), p.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		registered = ids[e.ID]
	}
	c.JSON(http.StatusOK, toEventResponse(e, registered))
}

// handleListEvents returns the caller-visible events split into active
// and archived buckets. ?clubId= scopes the listing to one club.
func (s *Server) handleListEvents(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	listing, err := s.events.List(c.Request.Context(), p, c.Query("clubId"))
	if err != nil {
		writeError(c, err)
		return
	}
	var registered map[string]bool
	if p.Role == identity.RoleStudent {
		registered, err = s.registrations.RegisteredEventIDs(c.Request.Context(), p.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"active":   toEventResponses(listing.Active, registered),
		"archived": toEventResponses(listing.Archived, registered),
	})
}

func toEventResponses(evs []events.Event, registered map[string]bool) []eventResponse {
	res := make([]eventResponse, 0, len(evs))
	for _, e := range evs {
		res = append(res, toEventResponse(e, registered[e.ID]))
	}
	return res
}
