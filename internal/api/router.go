package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(cfg, log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))
	router.Use(rateLimitMiddleware(newRateLimiter(cfg.RateLimit)))

	// Handlers
	articleHandler := NewArticleHandler(services, cfg, log)
	siteHandler := NewSiteHandler(services, log)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})

	// Uploaded PDFs
	uploads := router.Group(cfg.Storage.PublicPrefix, pdfHeadersMiddleware(cfg.Storage.UploadDir, cfg.Storage.PublicPrefix))
	uploads.Static("/", cfg.Storage.UploadDir)

	// Generated static site
	if cfg.Site.Enabled {
		router.Static("/site", cfg.Site.OutputDir)
	}

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)

		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/:id", articleHandler.Get)
			articles.POST("/upload", articleHandler.Upload)
			articles.PUT("/:id", articleHandler.Update)
			articles.DELETE("/:id", articleHandler.Delete)
		}

		site := api.Group("/site")
		{
			site.GET("/status", siteHandler.Status)
			site.POST("/regenerate", siteHandler.Regenerate)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Ranganmag API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
