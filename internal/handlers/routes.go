package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"figma-insights-api/internal/middleware"
	"figma-insights-api/internal/services"
)

// AnalyzePath is the route of the analyze endpoint
const AnalyzePath = "/api/analyze"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	AnalysisService services.AnalysisService
	MaxBodyBytes    int64
}

// NewRouter creates a gin engine with the standard middleware chain and all routes
func NewRouter(config *RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.CORS())

	SetupRoutes(router, config)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	analyzeHandler := NewAnalyzeHandler(config.AnalysisService, config.MaxBodyBytes)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "figma-insights-api",
			"timestamp": time.Now().UTC(),
		})
	})

	// The handler gates methods itself so non-POST requests get a JSON 405
	api := router.Group("/api")
	if config.MaxBodyBytes > 0 {
		api.Use(middleware.RequestSizeLimit(config.MaxBodyBytes))
	}
	api.Any("/analyze", analyzeHandler.Analyze)
}
