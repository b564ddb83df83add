package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/constants"
	apierrors "github.com/yukikurage/meeting-action-api/internal/errors"
	"github.com/yukikurage/meeting-action-api/internal/logger"
	"github.com/yukikurage/meeting-action-api/internal/models"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"go.uber.org/zap"
)

// RequireMeetingAccess loads the meeting named by the :id parameter and
// checks that it belongs to the caller's company
func RequireMeetingAccess(meetings repository.MeetingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		meetingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid meeting ID")
			return
		}

		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		meeting, err := meetings.FindByID(c.Request.Context(), meetingID, "Creator", "Participants", "Participants.User")
		if err != nil {
			if repository.IsNotFound(err) {
				apierrors.NotFound(c, services.ErrMeetingNotFound.Error())
				return
			}
			logger.FromGin(c).Error("failed to load meeting", zap.Error(err))
			apierrors.InternalError(c, "")
			return
		}

		// Other tenants' meetings answer 404 so their existence does not leak
		if err := services.Authorize(actor, meeting, 0, services.PermissionTenantMember); err != nil {
			apierrors.NotFound(c, services.ErrMeetingNotFound.Error())
			return
		}

		c.Set(constants.ContextKeyMeeting, meeting)
		c.Next()
	}
}

// GetMeeting retrieves the meeting set by RequireMeetingAccess
func GetMeeting(c *gin.Context) (*models.Meeting, bool) {
	v, exists := c.Get(constants.ContextKeyMeeting)
	if !exists {
		return nil, false
	}
	meeting, ok := v.(*models.Meeting)
	return meeting, ok
}
