package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/meeting-action-api/internal/errors"
	"github.com/yukikurage/meeting-action-api/internal/logger"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"go.uber.org/zap"
)

var (
	badRequestErrors = []error{
		services.ErrMeetingTitleRequired,
		services.ErrMeetingDateRequired,
		services.ErrInvalidParticipant,
		services.ErrInvalidMeetingStatus,
		services.ErrInvalidMeetingLength,
		services.ErrActionTitleRequired,
		services.ErrResponsiblesRequired,
		services.ErrInvalidResponsibleUser,
		services.ErrInvalidActionStatus,
		services.ErrInvalidPriority,
		services.ErrInvalidResponsibleStat,
		services.ErrInvalidDateRange,
		services.ErrResponsibleRequired,
		services.ErrNoProgressChange,
		services.ErrNewDateRequired,
		services.ErrParticipantRequired,
		services.ErrInvalidParticipantResponse,
	}
	notFoundErrors = []error{
		services.ErrCrossTenant,
		services.ErrMeetingNotFound,
		services.ErrActionNotFound,
		services.ErrResponsibleNotFound,
		services.ErrExtensionNotFound,
		services.ErrUserNotFound,
		services.ErrParticipantNotFound,
	}
	forbiddenErrors = []error{
		services.ErrNotAssignee,
		services.ErrNotMeetingAuthority,
		services.ErrNotAssigneeOrAuthority,
	}
	conflictErrors = []error{
		services.ErrExtensionAlreadyResolved,
		services.ErrExtensionAlreadyPending,
		services.ErrStaleAction,
		services.ErrParticipantExists,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondServiceError maps service errors onto HTTP responses. Anything
// unrecognised is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountDisabled):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrCrossTenant):
		apierrors.NotFound(c, "")
	case isAny(err, badRequestErrors):
		apierrors.BadRequest(c, err.Error())
	case isAny(err, notFoundErrors):
		apierrors.NotFound(c, err.Error())
	case isAny(err, forbiddenErrors):
		apierrors.Forbidden(c, err.Error())
	case isAny(err, conflictErrors):
		apierrors.Conflict(c, err.Error())
	default:
		logger.FromGin(c).Error("request failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
