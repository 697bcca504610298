package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "DineWise API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers every /api/v1 route on v1.
func RegisterRoutes(v1 *gin.RouterGroup, s Services, mw Middlewares) {
	NewAuthHandler(s.Auth).RegisterRoutes(v1, mw)
	NewRestaurantHandler(s.Restaurants).RegisterRoutes(v1, mw)
	NewReviewHandler(s.Reviews).RegisterRoutes(v1, mw)
	NewProfileHandler(s.Users).RegisterRoutes(v1, mw)
	NewMLHandler(s.Recommendations, s.Behavior).RegisterRoutes(v1, mw)
	NewSimilarityHandler(s.Recommendations).RegisterRoutes(v1, mw)
	NewDashboardHandler(s.Restaurants, s.Admin, s.Images).RegisterRoutes(v1, mw)
}
