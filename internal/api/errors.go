package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/authz"
	"campushub/internal/domain"
)

// writeError maps the domain error taxonomy onto HTTP statuses. Every
// handler funnels failures through here so the mapping lives in one
// place.
func writeError(c *gin.Context, err error) {
	var ipe domain.InvalidPayloadError
	if errors.As(err, &ipe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ipe.Error(), "field": ipe.Field})
		return
	}
	var fe authz.ForbiddenError
	if errors.As(err, &fe) {
		c.JSON(http.StatusForbidden, gin.H{"error": fe.Error()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotRegistered):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEventClosed),
		errors.Is(err, domain.ErrDeadlinePassed),
		errors.Is(err, domain.ErrNotEligibleDepartment),
		errors.Is(err, domain.ErrNotEligibleYear):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
