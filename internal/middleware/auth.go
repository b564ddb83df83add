package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-action-api/internal/constants"
	apierrors "github.com/yukikurage/meeting-action-api/internal/errors"
	"github.com/yukikurage/meeting-action-api/internal/logger"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"go.uber.org/zap"
)

// TokenParser verifies a bearer token and returns the caller.
type TokenParser interface {
	Parse(token string) (services.Actor, error)
}

// RequireAuth checks the bearer token and stores the actor in context
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			apierrors.Unauthorized(c, "")
			return
		}

		actor, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix)))
		if err != nil {
			apierrors.Unauthorized(c, err.Error())
			return
		}

		c.Set(constants.ContextKeyActor, actor)
		c.Set(constants.ContextKeyLogger, logger.FromGin(c).With(
			zap.Uint64("user_id", actor.UserID),
			zap.Uint64("company_id", actor.CompanyID),
		))
		c.Next()
	}
}

// GetActor retrieves the authenticated caller from context
func GetActor(c *gin.Context) (services.Actor, bool) {
	v, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}
