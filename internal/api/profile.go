package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dinewise/backend/internal/middleware"
	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/types"
)

// ProfileHandler serves the authenticated user's profile and favorites.
type ProfileHandler struct {
	users service.IUserService
}

func NewProfileHandler(users service.IUserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, mw Middlewares) {
	users := router.Group("/users")
	users.Use(chain(mw.Auth)...)
	{
		users.GET("/profile", h.GetProfile)
		users.PUT("/profile", with(h.UpdateProfile, mw.RateLimit)...)
		users.GET("/favorites", h.ListFavorites)
		users.POST("/favorites/:restaurantId", with(h.AddFavorite, mw.RateLimit)...)
		users.DELETE("/favorites/:restaurantId", with(h.RemoveFavorite, mw.RateLimit)...)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *ProfileHandler) ListFavorites(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	favorites, err := h.users.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if favorites == nil {
		favorites = []models.Restaurant{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(favorites), "favorites": favorites})
}

func (h *ProfileHandler) AddFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	restaurantID, ok := uuidParam(c, "restaurantId")
	if !ok {
		return
	}
	if err := h.users.AddFavorite(c.Request.Context(), userID, restaurantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "added to favorites"})
}

func (h *ProfileHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	restaurantID, ok := uuidParam(c, "restaurantId")
	if !ok {
		return
	}
	if err := h.users.RemoveFavorite(c.Request.Context(), userID, restaurantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "removed from favorites"})
}
