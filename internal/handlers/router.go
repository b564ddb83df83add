package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/metrics"
	"github.com/yukikurage/meeting-action-api/internal/middleware"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"go.uber.org/zap"
)

// RouterDeps holds everything the HTTP surface needs.
type RouterDeps struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Tokens   middleware.TokenParser
	Meetings repository.MeetingRepository

	Auth      *AuthHandler
	Meeting   *MeetingHandler
	Action    *ActionHandler
	Approval  *ApprovalHandler
	Extension *ExtensionHandler
	Overdue   *OverdueHandler
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Meeting Action API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", d.Auth.Login)
			auth.GET("/me", middleware.RequireAuth(d.Tokens), d.Auth.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(d.Tokens))

		meetings := protected.Group("/meetings")
		{
			meetings.POST("", d.Meeting.CreateMeeting)
			meetings.GET("", d.Meeting.ListMeetings)
			meetings.GET("/:id", middleware.RequireMeetingAccess(d.Meetings), d.Meeting.GetMeeting)
			meetings.POST("/:id/participants", d.Meeting.AddParticipant)
			meetings.POST("/:id/participant-response", d.Meeting.RespondToInvitation)
		}

		actions := protected.Group("/actions")
		{
			actions.GET("", d.Action.ListActions)
			actions.POST("", d.Action.CreateAction)
			actions.POST("/approve", d.Approval.Approve)
			actions.GET("/:id", d.Action.GetAction)
			actions.POST("/:id/responsibles", d.Action.AddResponsibles)
			actions.POST("/:id/ratify", d.Approval.Ratify)
		}

		responsibles := protected.Group("/responsibles")
		{
			responsibles.PUT("/:id", d.Approval.UpdateProgress)
			responsibles.POST("/:id/extension-requests", d.Extension.RequestExtension)
		}

		protected.POST("/extension-requests/:id/respond", d.Extension.RespondToExtension)
		protected.GET("/approvals", d.Approval.ListPendingApprovals)
		protected.GET("/overdue-actions", d.Overdue.ListOverdue)
	}

	return r
}
