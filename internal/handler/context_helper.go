package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecoquest-api/internal/middleware"
	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/response"
)

// actorFromContext returns the resolved actor or writes a 401 and reports false.
func actorFromContext(c *gin.Context) (*models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrAuthenticationRequired, ""))
		return nil, false
	}
	return actor, true
}

func invalidPayload(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
