package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ratelshop/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestLogger(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		price := v1.Group("/price")
		{
			price.POST("/analyze", handler.AnalyzePrice)
		}

		negotiation := v1.Group("/negotiation")
		{
			negotiation.POST("/suggest", handler.SuggestCounterOffer)
			negotiation.POST("/validate", handler.ValidateOffer)
		}

		messages := v1.Group("/messages")
		{
			messages.POST("/check", handler.CheckMessage)
		}

		ai := v1.Group("/ai")
		{
			ai.POST("/copy", handler.GenerateCopy)
			ai.POST("/assist", handler.Assist)
		}
	}

	return router
}
