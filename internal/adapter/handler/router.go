package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meetnotes/internal/adapter/dto/common"
	"github.com/johnquangdev/meetnotes/pkg/config"
)

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	sessionHandler *Session
	meetingHandler *Meeting
	checks         map[string]HealthCheck
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, sessionHandler *Session, meetingHandler *Meeting, checks map[string]HealthCheck) *Router {
	return &Router{
		cfg:            cfg,
		sessionHandler: sessionHandler,
		meetingHandler: meetingHandler,
		checks:         checks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupSessionRoutes(v1)
	rt.setupMeetingRoutes(v1)
}

// setupSessionRoutes configures pipeline session routes
func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessions := g.Group("/sessions")
	sessions.POST("", rt.sessionHandler.Create)
	sessions.GET("/:id", rt.sessionHandler.Get)
	sessions.POST("/:id/run", rt.sessionHandler.Run)
	sessions.POST("/:id/save", rt.sessionHandler.Save)
	sessions.DELETE("/:id", rt.sessionHandler.Reset)
}

// setupMeetingRoutes configures meeting record and action item routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)
	meetings.GET("/:id/export", rt.meetingHandler.Export)
	meetings.POST("/:id/export", rt.meetingHandler.Publish)

	g.PATCH("/actions/:id", rt.meetingHandler.UpdateActionStatus)
}

// healthCheck returns health status. Any failing dependency turns it into a 503.
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := common.HealthResponse{
		Status:      "ok",
		Environment: rt.cfg.Server.Environment,
		Time:        time.Now().UTC(),
	}
	status := http.StatusOK
	if len(rt.checks) > 0 {
		resp.Checks = make(map[string]string, len(rt.checks))
	}
	for name, check := range rt.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	return c.JSON(status, resp)
}
