package http

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/metrics"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(exposeErrors(cfg.Development))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: "Something went wrong!",
			Error:   panicDetail(c, recovered),
		})
	}))
	router.Use(metrics.Middleware())
	router.Use(cors.New(corsConfig()))
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())
	router.Use(auth.ReadOnlyMiddleware(cfg.ReadOnly))
	if cfg.APIKey != nil {
		router.Use(cfg.APIKey.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Scheduler, cfg.Version)
	authors := NewAuthorsController(cfg.Authors)
	categories := NewCategoriesController(cfg.Categories)
	books := NewBooksController(cfg.Books, cfg.Covers, cfg.MaxUploadSize)
	admin := NewAdminController(cfg.TaskClient, cfg.Reconciler)

	router.GET("/", welcome(cfg.Version))
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", metrics.Handler())

	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	api := router.Group("/api")

	api.GET("/authors", authors.List)
	api.GET("/authors/:id", authors.Get)
	api.POST("/authors", authors.Create)
	api.PUT("/authors/:id", authors.Update)
	api.DELETE("/authors/:id", authors.Delete)

	api.GET("/categories", categories.List)
	api.GET("/categories/:id", categories.Get)
	api.POST("/categories", categories.Create)
	api.PUT("/categories/:id", categories.Update)
	api.DELETE("/categories/:id", categories.Delete)

	api.GET("/books", books.List)
	api.GET("/books/:id", books.Get)
	api.POST("/books", books.Create)
	api.PUT("/books/:id", books.Update)
	api.DELETE("/books/:id", books.Delete)

	if cfg.TaskClient != nil || cfg.Reconciler != nil {
		api.POST("/admin/reconcile", admin.Reconcile)
	}
	if cfg.TaskClient != nil {
		api.POST("/admin/covers/cleanup", admin.CleanupCovers)
		api.GET("/tasks/:id", admin.TaskStatus)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Route not found")
	})

	return router
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", auth.APIKeyHeader)
	return cfg
}

func panicDetail(c *gin.Context, recovered any) string {
	if !c.GetBool(ContextKeyExposeErrors) {
		return "Internal server error"
	}
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	if s, ok := recovered.(string); ok {
		return s
	}
	return "panic"
}

// welcome describes the API at GET /.
func welcome(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to Books Management API",
			"version": version,
			"endpoints": gin.H{
				"books":      "/api/books",
				"authors":    "/api/authors",
				"categories": "/api/categories",
			},
		})
	}
}
