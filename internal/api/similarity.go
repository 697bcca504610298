package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/service"
)

const maxSimilarLimit = 50

type SimilarityHandler struct {
	recommendations service.IRecommendationService
}

func NewSimilarityHandler(recommendations service.IRecommendationService) *SimilarityHandler {
	return &SimilarityHandler{recommendations: recommendations}
}

func (h *SimilarityHandler) RegisterRoutes(router *gin.RouterGroup, mw Middlewares) {
	router.GET("/similarity/restaurants/:id/similar", with(h.Similar, mw.RateLimit)...)
}

// Similar lists restaurants resembling :id in cuisine, price and rating.
func (h *SimilarityHandler) Similar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		badQuery(c, err)
		return
	}
	if limit != nil && (*limit < 0 || *limit > maxSimilarLimit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
		return
	}

	list, criteria, err := h.recommendations.Similar(c.Request.Context(), id, strings.TrimSpace(c.Query("cuisine")), deref(limit))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Restaurant{}
	}
	c.JSON(http.StatusOK, SimilarResponse{Success: true, SimilarRestaurants: list, BasedOn: criteria})
}
