package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/dinewise/backend/internal/middleware"
	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/types"
	"github.com/pageza/dinewise/backend/internal/validation"
)

// MLHandler serves personalised recommendations and behaviour tracking.
type MLHandler struct {
	recommendations service.IRecommendationService
	behavior        service.IBehaviorService
}

func NewMLHandler(recommendations service.IRecommendationService, behavior service.IBehaviorService) *MLHandler {
	return &MLHandler{recommendations: recommendations, behavior: behavior}
}

func (h *MLHandler) RegisterRoutes(router *gin.RouterGroup, mw Middlewares) {
	ml := router.Group("/ml")
	ml.Use(chain(mw.Auth)...)
	{
		ml.GET("/:userId/recommendations", with(h.Recommendations, mw.RateLimit)...)
		ml.GET("/:userId/behavior", h.Behavior)
		ml.POST("/track-behavior", with(h.TrackBehavior, mw.RateLimit)...)
	}
}

// targetUser resolves :userId and checks the caller may act on it.
func targetUser(c *gin.Context) (uuid.UUID, bool) {
	callerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return uuid.Nil, false
	}
	if userID != callerID && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot access another user's data"})
		return uuid.Nil, false
	}
	return userID, true
}

func recommendationQuery(c *gin.Context) (*types.RecommendationQuery, error) {
	q := &types.RecommendationQuery{
		CurrentRestaurantID: strings.TrimSpace(c.Query("currentRestaurantId")),
		Cuisine:             strings.TrimSpace(c.Query("cuisine")),
		Mode:                strings.ToLower(strings.TrimSpace(c.Query("mode"))),
	}
	var err error
	if q.Latitude, err = floatQuery(c, "latitude"); err != nil {
		return nil, err
	}
	if q.Longitude, err = floatQuery(c, "longitude"); err != nil {
		return nil, err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return nil, err
	}
	q.Limit = deref(limit)
	return q, nil
}

func (h *MLHandler) Recommendations(c *gin.Context) {
	userID, ok := targetUser(c)
	if !ok {
		return
	}
	q, err := recommendationQuery(c)
	if err != nil {
		badQuery(c, err)
		return
	}
	if err := validation.Validate(q); err != nil {
		respondError(c, err)
		return
	}

	res, err := h.recommendations.ForUser(c.Request.Context(), userID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	list := res.Recommendations
	if list == nil {
		list = []models.Restaurant{}
	}
	c.JSON(http.StatusOK, RecommendationResponse{
		Success:            true,
		Recommendations:    list,
		Algorithm:          res.Algorithm,
		Reasoning:          res.Reasoning,
		UserFavoritesCount: res.UserFavoritesCount,
	})
}

func (h *MLHandler) TrackBehavior(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	var req types.TrackBehaviorRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.behavior.Track(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": b})
}

func (h *MLHandler) Behavior(c *gin.Context) {
	userID, ok := targetUser(c)
	if !ok {
		return
	}
	list, err := h.behavior.Recent(c.Request.Context(), userID, service.RecentBehaviorLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.UserBehavior{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "behaviors": list})
}
