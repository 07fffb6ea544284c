package http

import (
	"github.com/gin-gonic/gin"

	"github.com/orderledger/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	{
		orders := v1.Group("/orders")
		{
			orders.POST("/reconcile", handler.ReconcileOrders)
			orders.POST("/export", handler.ExportOrders)
		}

		v1.POST("/status/classify", handler.ClassifyStatus)
		v1.POST("/dates/normalize", handler.NormalizeDate)
	}

	return router
}
