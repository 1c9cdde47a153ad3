package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ecowall/config"
	"ecowall/handlers"
	"ecowall/middleware"
	"ecowall/storage"
)

func SetupRouter(cfg *config.Config, posts *handlers.PostHandler, chat *handlers.ChatHandler) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health checks.
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "EcoWall API running", "service": "healthy"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Uploaded images are public assets; the SPA loads them from another
	// origin, so the static mount must answer with permissive CORS headers.
	uploads := router.Group(storage.URLPrefix, func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
	})
	uploads.Static("/", cfg.UploadDir)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateWindow)))
	api.Use(middleware.Identity(cfg.JWTSecret))

	api.GET("/posts", posts.List)
	api.GET("/posts/:id", posts.Get)
	api.POST("/posts", posts.Create)
	api.PUT("/posts/:id/like", posts.ToggleLike)
	api.POST("/posts/:id/comments", posts.AddComment)
	api.DELETE("/posts/:id", posts.Delete)

	api.POST("/chat", chat.Ask)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{"success": false, "error": "Endpoint not found", "path": c.Request.URL.Path})
			return
		}
		c.Next()
	})

	return router
}
