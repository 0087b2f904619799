package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
	webhookHandler *TranscriptionWebhook
	metrics        http.Handler
}

// NewRouter creates a new router with all handlers. metrics may be nil.
func NewRouter(cfg *config.Config, meetingHandler *Meeting, webhookHandler *TranscriptionWebhook, metrics http.Handler) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
		webhookHandler: webhookHandler,
		metrics:        metrics,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics))
	}

	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupMeetingRoutes configures aggregation and dashboard routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	if rt.meetingHandler == nil {
		return
	}

	meetings := g.Group("/meetings")
	meetings.POST("/analyze", rt.meetingHandler.Analyze)
	meetings.GET("", rt.meetingHandler.ListMeetings)
	meetings.GET("/:id", rt.meetingHandler.GetMeeting)

	items := g.Group("/action-items")
	items.GET("", rt.meetingHandler.ListActionItems)
	items.POST("/complete", rt.meetingHandler.CompleteActionItem)
}

// setupWebhookRoutes configures routes called by the transcription pipeline
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.webhookHandler == nil {
		return
	}
	g.POST("/webhooks/transcription", rt.webhookHandler.Handle)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
