package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/response"
)

// RequireRoles lets the request through only when the resolved actor holds
// one of roles. It must run after Identity.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrAuthenticationRequired, ""))
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(actor.Role)+" may not access this resource"))
			return
		}
		c.Next()
	}
}
