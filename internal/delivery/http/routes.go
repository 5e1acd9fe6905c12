package http

import (
	"github.com/gin-gonic/gin"

	"github.com/macrolens/foodlog/config"
	"github.com/macrolens/foodlog/internal/platform/logger"
)

// SetupRouter creates and configures the Gin router.
// limiter may be nil to disable per-IP rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *IPRateLimiter, log *logger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.Middleware())
	}
	{
		foods := v1.Group("/foods")
		{
			foods.GET("/search", handler.SearchFoods)
			foods.GET("/:fdcId", handler.GetFood)
			foods.POST("/:fdcId/scale", handler.ScaleFood)
		}

		logs := v1.Group("/logs")
		{
			logs.GET("/:date", handler.GetDailyLog)
			logs.POST("/:date/entries", handler.AddLogEntry)
			logs.DELETE("/:date/entries/:id", handler.DeleteLogEntry)
		}

		v1.GET("/goals", handler.GetGoals)
		v1.PUT("/goals", handler.UpdateGoals)

		presets := v1.Group("/presets")
		{
			presets.GET("", handler.ListPresets)
			presets.POST("", handler.CreatePreset)
			presets.PUT("/:id", handler.UpdatePreset)
			presets.DELETE("/:id", handler.DeletePreset)
		}
	}

	return router
}
