package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dinewise/backend/internal/middleware"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/types"
)

type ReviewHandler struct {
	reviews service.IReviewService
}

func NewReviewHandler(reviews service.IReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, mw Middlewares) {
	reviews := router.Group("/reviews")
	{
		reviews.GET("/restaurant/:restaurantId", h.List)
		reviews.POST("/restaurant/:restaurantId", with(h.Create, mw.Auth, mw.RateLimit)...)
		reviews.PUT("/:reviewId", with(h.Update, mw.Auth, mw.RateLimit)...)
		reviews.DELETE("/:reviewId", with(h.Delete, mw.Auth, mw.RateLimit)...)
	}
}

func (h *ReviewHandler) List(c *gin.Context) {
	restaurantID, ok := uuidParam(c, "restaurantId")
	if !ok {
		return
	}
	list, err := h.reviews.ListForRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []service.ReviewWithAuthor{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "reviews": list})
}

func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	restaurantID, ok := uuidParam(c, "restaurantId")
	if !ok {
		return
	}
	var req types.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), userID, restaurantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}
	var req types.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), userID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "review deleted"})
}
