package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/types"
)

// DashboardHandler serves the admin dashboard and restaurant management.
type DashboardHandler struct {
	restaurants service.IRestaurantService
	admin       service.IAdminService
	images      service.IImageService
}

func NewDashboardHandler(restaurants service.IRestaurantService, admin service.IAdminService, images service.IImageService) *DashboardHandler {
	return &DashboardHandler{restaurants: restaurants, admin: admin, images: images}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup, mw Middlewares) {
	admin := router.Group("/admin")
	admin.Use(chain(mw.Auth, mw.Admin)...)
	{
		admin.GET("/dashboard", h.GetStats)
		admin.GET("/restaurants", h.ListRestaurants)
		admin.GET("/restaurants/search", h.SearchRestaurants)
		admin.POST("/restaurants", h.CreateRestaurant)
		admin.PUT("/restaurants/:id", h.UpdateRestaurant)
		admin.DELETE("/restaurants/:id", h.DeleteRestaurant)
		admin.POST("/restaurants/:id/image", h.UploadImage)
	}
}

// GetStats returns the dashboard counters.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) ListRestaurants(c *gin.Context) {
	page, err := intQuery(c, "page")
	if err != nil {
		badQuery(c, err)
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		badQuery(c, err)
		return
	}
	res, err := h.restaurants.AdminList(c.Request.Context(), deref(page), deref(limit), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRestaurantList(res))
}

func (h *DashboardHandler) SearchRestaurants(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	list, err := h.restaurants.AdminSearch(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Restaurant{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "restaurants": list})
}

func (h *DashboardHandler) CreateRestaurant(c *gin.Context) {
	var req types.RestaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.restaurants.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	logging.Ctx(c.Request.Context()).Info().Str("restaurant_id", r.ID.String()).Msg("restaurant created")
	c.JSON(http.StatusCreated, gin.H{"success": true, "restaurant": r})
}

func (h *DashboardHandler) UpdateRestaurant(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.RestaurantRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.restaurants.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restaurant": r})
}

func (h *DashboardHandler) DeleteRestaurant(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.restaurants.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	logging.Ctx(c.Request.Context()).Info().Str("restaurant_id", id.String()).Msg("restaurant deleted")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "restaurant deleted"})
}
