package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	"github.com/noah-isme/ecoquest-api/pkg/response"
)

type dashboardResolver interface {
	Resolve(ctx context.Context, actor *models.Actor) (*dto.DashboardResponse, error)
}

// DashboardHandler renders the role-specific landing data.
type DashboardHandler struct {
	service dashboardResolver
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc dashboardResolver) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Dashboard godoc
// @Summary Role dashboard
// @Description Route and payload of the dashboard matching the caller's role
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	res, err := h.service.Resolve(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res, map[string]interface{}{"route": res.Route})
}

// Me godoc
// @Summary Get current actor
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *DashboardHandler) Me(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	response.OK(c, actor)
}
