package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/api"
	"github.com/pageza/dinewise/backend/internal/database"
	"github.com/pageza/dinewise/backend/internal/middleware"
)

// Deps is everything SetupRouter wires together. Redis may be nil.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Services api.Services
}

// SetupRouter configures the application routes
func SetupRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(d.Config.CORS.Origins))

	health := healthHandler(d.DB)
	router.GET("/health", health)
	router.GET("/api/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(d.Redis, middleware.RateLimitConfig{
		Window:    d.Config.RateLimit.Window,
		Limit:     d.Config.RateLimit.Requests,
		KeyPrefix: "ratelimit:api",
	})

	api.RegisterRoutes(router.Group("/api/v1"), d.Services, api.Middlewares{
		Auth:      middleware.AuthMiddleware(d.Services.Auth),
		Admin:     middleware.AdminOnly(),
		RateLimit: limiter.RateLimitMiddleware(),
	})

	return router
}

// healthHandler reports healthy only while the database answers.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unavailable"})
			return
		}
		api.HealthCheck(c)
	}
}
