package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JSSP85/SolarApp-sub002/config"
	"github.com/JSSP85/SolarApp-sub002/internal/api/handler"
	"github.com/JSSP85/SolarApp-sub002/internal/api/middleware"
	"github.com/JSSP85/SolarApp-sub002/internal/service"
	"github.com/JSSP85/SolarApp-sub002/pkg/jwt"
	"github.com/JSSP85/SolarApp-sub002/pkg/redis"
)

// maxBodyBytes caps request bodies. Attachments are metadata only, so
// even a create with many photo descriptors stays well under this.
const maxBodyBytes = 1 << 20

// gate builds a RoleAuth middleware from the feature access table.
func gate(feature string) gin.HandlerFunc {
	return middleware.RoleAuth(service.RolesFor(feature)...)
}

// Setup initializes and returns the Gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// authentication (no token required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.RefreshToken)
		}

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)
			authorized.POST("/auth/register", middleware.RoleAuth("admin"), h.Auth.Register)

			// non-conformity register
			ncs := authorized.Group("/ncs")
			{
				ncs.POST("", gate(service.FeatureCreate), h.NC.CreateNC)
				ncs.GET("", gate(service.FeatureTracking), h.NC.ListNCs)
				ncs.GET("/metrics", gate(service.FeatureAnalytics), h.NC.GetMetrics)
				ncs.GET("/stats", gate(service.FeatureDashboard), h.NC.GetStats)
				ncs.PUT("/status", gate(service.FeatureDatabase), h.NC.BulkUpdateStatus)
				ncs.GET("/number/:number", gate(service.FeatureHistory), h.NC.GetNCByNumber)
				ncs.GET("/:id", gate(service.FeatureTracking), h.NC.GetNC)
				ncs.PUT("/:id", gate(service.FeatureDatabase), h.NC.UpdateNC)
				ncs.DELETE("/:id", gate(service.FeatureDatabase), h.NC.DeleteNC)
				ncs.PUT("/:id/status", gate(service.FeatureTracking), h.NC.UpdateNCStatus)
				ncs.POST("/:id/timeline", gate(service.FeatureTracking), h.NC.AddTimelineEntry)
				ncs.GET("/:id/mailto", gate(service.FeatureTracking), h.NC.GetMailtoLink)
			}

			// inspection reports
			inspections := authorized.Group("/inspections")
			{
				inspections.POST("", gate(service.FeatureCreate), h.Inspection.CreateInspection)
				inspections.GET("", gate(service.FeatureTracking), h.Inspection.ListInspections)
				inspections.GET("/:id", gate(service.FeatureTracking), h.Inspection.GetInspection)
				inspections.PUT("/:id", gate(service.FeatureDatabase), h.Inspection.UpdateInspection)
				inspections.DELETE("/:id", gate(service.FeatureDatabase), h.Inspection.DeleteInspection)
			}

			// component catalog (read-only)
			catalog := authorized.Group("/catalog")
			{
				catalog.GET("/families", h.Catalog.ListFamilies)
				catalog.GET("/families/:family/codes", h.Catalog.ListCodes)
				catalog.GET("/codes/:code/dimensions", h.Catalog.ListDimensions)
				catalog.GET("/codes/:code/drawing", h.Catalog.GetDrawing)
			}

			// downloads
			export := authorized.Group("/export")
			export.Use(gate(service.FeatureExport))
			{
				export.GET("/register", h.Export.ExportRegister)
				export.GET("/closures", h.Export.ExportClosureCalendar)
			}
		}
	}

	return r
}
