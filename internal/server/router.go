package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/internal/handler"
	"github.com/noah-isme/ecoquest-api/internal/middleware"
	"github.com/noah-isme/ecoquest-api/internal/models"
	"github.com/noah-isme/ecoquest-api/internal/service"
	"github.com/noah-isme/ecoquest-api/pkg/config"
	"github.com/noah-isme/ecoquest-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ecoquest-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ecoquest-api/pkg/middleware/requestid"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Assignments   *handler.AssignmentHandler
	Notifications *handler.NotificationHandler
	Dashboard     *handler.DashboardHandler
	Metrics       *handler.MetricsHandler
	// Files is nil unless attachments are served from local disk.
	Files *handler.FileHandler
}

// Guards authenticates requests and resolves the acting user.
type Guards struct {
	Tokens    middleware.TokenValidator
	Actors    middleware.ActorResolver
	Metrics   *service.MetricsService
	ServeDocs bool
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(cfg *config.Config, h Handlers, g Guards, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(g.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if g.ServeDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/login", h.Auth.Login)

	if h.Files != nil {
		api.GET("/files/*path", h.Files.Download)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(g.Tokens), middleware.Identity(g.Actors))

	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	studentOnly := middleware.RequireRoles(models.RoleStudent)
	ngoOnly := middleware.RequireRoles(models.RoleNGO)

	secured.GET("/me", h.Dashboard.Me)
	secured.GET("/dashboard", h.Dashboard.Dashboard)

	assignments := secured.Group("/assignments")
	assignments.POST("", teacherOnly, h.Assignments.Create)
	assignments.GET("/mine", teacherOnly, h.Assignments.Mine)
	assignments.GET("/submissions", teacherOnly, h.Assignments.Submissions)
	assignments.GET("/gradebook", teacherOnly, h.Assignments.Gradebook)
	assignments.GET("", studentOnly, h.Assignments.List)
	assignments.GET("/:id", h.Assignments.Get)
	assignments.PUT("/:id/submission", studentOnly, h.Assignments.Submit)

	secured.PATCH("/submissions/:id/grade", teacherOnly, h.Assignments.Grade)

	secured.POST("/notifications", ngoOnly, h.Notifications.Create)
	secured.GET("/notifications", h.Notifications.List)

	return r
}
