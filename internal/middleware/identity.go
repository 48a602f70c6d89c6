package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/logger"
	"github.com/noah-isme/ecoquest-api/pkg/response"
)

// ContextActorKey is the gin context key storing the resolved *models.Actor.
const ContextActorKey = "currentActor"

// ActorResolver maps token claims to the acting user.
type ActorResolver interface {
	CurrentActor(ctx context.Context, claims *models.JWTClaims) (*models.Actor, error)
}

// Identity resolves the Actor for requests that passed JWT.
func Identity(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		claims, _ := value.(*models.JWTClaims)
		if !exists || claims == nil {
			response.Abort(c, appErrors.Clone(appErrors.ErrAuthenticationRequired, ""))
			return
		}

		actor, err := resolver.CurrentActor(c.Request.Context(), claims)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextActorKey, actor)
		c.Set(logger.ActorIDKey, actor.ID)
		c.Next()
	}
}

// ActorFrom returns the actor stored by Identity, if any.
func ActorFrom(c *gin.Context) (*models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*models.Actor)
	return actor, ok && actor != nil
}
