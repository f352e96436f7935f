package router

import (
	"github.com/gin-gonic/gin"

	"propfolio/internal/config"
	"propfolio/internal/domain"
	"propfolio/internal/handler"
	"propfolio/internal/middleware"
	"propfolio/internal/service"
)

// Handlers bundles all HTTP handlers for route registration.
type Handlers struct {
	Health   *handler.HealthHandler
	Intake   *handler.IntakeHandler
	Property *handler.PropertyHandler
	File     *handler.FileHandler
}

// New builds the gin engine with middleware and all routes registered.
func New(cfg *config.Config, authService service.AuthService, h Handlers) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(authService))
	{
		api.POST("/intake/batches", h.Intake.ProcessBatch)

		properties := api.Group("/properties")
		{
			properties.POST("", h.Property.Create)
			properties.GET("", h.Property.List)
			properties.GET("/:id", h.Property.GetByID)
			properties.PUT("/:id", h.Property.Update)
			properties.GET("/:id/documents", h.Property.ListDocuments)
			properties.GET("/:id/export", h.Property.ExportXLSX)
			properties.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.Property.Delete)
		}

		files := api.Group("/files")
		{
			files.POST("", h.File.Upload)
			files.GET("", h.File.List)
			files.GET("/:id", h.File.GetByID)
			files.GET("/:id/download-url", h.File.GetDownloadURL)
			files.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.File.Delete)
		}
	}

	return r
}
