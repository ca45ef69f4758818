// Package api exposes the HTTP surface over the core services.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"campushub/internal/achievements"
	"campushub/internal/announcements"
	"campushub/internal/clubs"
	"campushub/internal/config"
	"campushub/internal/events"
	"campushub/internal/httpmiddleware"
	"campushub/internal/identity"
	"campushub/internal/registrations"
	"campushub/internal/uploader"
)

// HealthCheck reports backend liveness for /healthz.
type HealthCheck func(ctx context.Context) map[string]bool

// Server bundles the services behind the HTTP handlers.
type Server struct {
	cfg           config.App
	log           zerolog.Logger
	events        *events.Service
	registrations *registrations.Service
	clubs         *clubs.Service
	achievements  *achievements.Service
	announcements *announcements.Service
	uploads       uploader.Uploader
	health        HealthCheck
}

// New assembles a server. uploads and health may be nil.
func New(
	cfg config.App,
	log zerolog.Logger,
	eventSvc *events.Service,
	regSvc *registrations.Service,
	clubSvc *clubs.Service,
	achSvc *achievements.Service,
	annSvc *announcements.Service,
	uploads uploader.Uploader,
	health HealthCheck,
) *Server {
	return &Server{
		cfg:           cfg,
		log:           log,
		events:        eventSvc,
		registrations: regSvc,
		clubs:         clubSvc,
		achievements:  achSvc,
		announcements: annSvc,
		uploads:       uploads,
		health:        health,
	}
}

// Router builds the gin engine with the full route table.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Env == "production" || s.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(s.log))
	r.Use(httpmiddleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(httpmiddleware.NewSimpleTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.handleHealthz)

	if s.cfg.Env != "production" && s.cfg.Env != "prod" {
		r.POST("/v1/auth/token", s.handleDevToken)
	}

	v1 := r.Group("/v1", identity.Auth(s.cfg.JWTSigningKey, s.cfg.JWTIssuer, s.clubs))

	v1.GET("/events", s.handleListEvents)
	v1.POST("/events", s.handleCreateEvent)
	v1.GET("/events/:id", s.handleGetEvent)
	v1.PUT("/events/:id", s.handleUpdateEvent)
	v1.DELETE("/events/:id", s.handleDeleteEvent)

	v1.POST("/events/:id/registrations", s.handleRegister)
	v1.GET("/events/:id/registrations", s.handleListRegistrations)
	v1.GET("/events/:id/registrations/export", s.handleExportRegistrations)
	v1.DELETE("/events/:id/registrations", s.handleUnregisterSelf)
	v1.DELETE("/events/:id/registrations/:principalId", s.handleUnregister)
	v1.GET("/me/registrations", s.handleMyRegistrations)

	v1.GET("/clubs", s.handleListClubs)
	v1.POST("/clubs", s.handleCreateClub)
	v1.GET("/clubs/:id", s.handleGetClub)
	v1.POST("/clubs/:id/join", s.handleJoinClub)
	v1.DELETE("/clubs/:id/membership", s.handleLeaveClub)
	v1.GET("/clubs/:id/members", s.handleListMembers)
	v1.PUT("/clubs/:id/members/:userId/role", s.handleChangeMemberRole)

	v1.GET("/achievements", s.handleListAchievements)
	v1.POST("/achievements", s.handleCreateAchievement)
	v1.DELETE("/achievements/:id", s.handleDeleteAchievement)

	v1.GET("/announcements", s.handleListAnnouncements)
	v1.POST("/announcements", s.handleCreateAnnouncement)
	v1.DELETE("/announcements/:id", s.handleDeleteAnnouncement)

	v1.POST("/uploads", s.handleUpload)

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	res := gin.H{"status": "ok"}
	status := http.StatusOK
	if s.health != nil {
		for name, healthy := range s.health(c.Request.Context()) {
			res[name] = healthy
			if !healthy {
				status = http.StatusServiceUnavailable
			}
		}
	}
	c.JSON(status, res)
}

// handleDevToken issues a signed token for local development. The route
// is not registered in production.
func (s *Server) handleDevToken(c *gin.Context) {
	var req struct {
		UserID     string `json:"userId" binding:"required"`
		Role       string `json:"role" binding:"required,oneof=student faculty admin"`
		Department string `json:"department"`
		Year       int    `json:"year"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, exp, err := identity.Issue(req.UserID, identity.Role(req.Role), req.Department, req.Year,
		s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"accessToken": token, "expiresAt": exp.Unix()})
}

func principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	}
	return p, ok
}
