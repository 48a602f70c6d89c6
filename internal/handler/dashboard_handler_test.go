package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	"github.com/noah-isme/ecoquest-api/internal/service"
)

type fakeDashboard struct{}

func (fakeDashboard) Resolve(_ context.Context, actor *models.Actor) (*dto.DashboardResponse, error) {
	route, _ := service.RouteFor(actor.Role)
	return &dto.DashboardResponse{Role: actor.Role, Route: route, Actor: *actor}, nil
}

func dashboardRouter(actor *models.Actor) http.Handler {
	h := NewDashboardHandler(fakeDashboard{})
	r := newTestRouter(actor)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/me", h.Me)
	return r
}

func TestDashboardRoutePerRole(t *testing.T) {
	cases := map[*models.Actor]string{
		studentActor: service.RouteStudentDashboard,
		teacherActor: service.RouteTeacherDashboard,
		ngoActor:     service.RouteNGODashboard,
	}
	for actor, route := range cases {
		rec := serveJSON(dashboardRouter(actor), http.MethodGet, "/dashboard", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, route, decodeEnvelope(t, rec).Meta["route"])
	}
}

func TestMeReturnsActor(t *testing.T) {
	rec := serveJSON(dashboardRouter(ngoActor), http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"role":"ngo"`)

	rec = serveJSON(dashboardRouter(nil), http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReadyReportsDownDependency(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(),
		func(context.Context) error { return nil },
		func(context.Context) error { return errors.New("redis unreachable") },
	)
	r := newTestRouter(nil)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)

	rec := serveJSON(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cache":"down"`)
	assert.Contains(t, rec.Body.String(), `"database":"up"`)

	rec = serveJSON(r, http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), "readiness_ping")
}
