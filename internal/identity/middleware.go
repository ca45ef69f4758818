package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Auth enforces bearer JWT tokens and attaches a Principal to the
// request context. Club roles are resolved through the RoleSource so
// that club-scoped authorization never trusts token contents.
func Auth(signingKey, issuer string, roles RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		p := Principal{
			UserID:     claims.Subject,
			Role:       Role(claims.Role),
			Department: claims.Department,
			Year:       claims.Year,
		}
		if roles != nil {
			clubRoles, err := roles.RolesForUser(c.Request.Context(), p.UserID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "membership lookup failed"})
				return
			}
			p.ClubRoles = clubRoles
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// FromContext returns the Principal attached by Auth.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
