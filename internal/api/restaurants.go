package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dinewise/backend/internal/middleware"
	"github.com/pageza/dinewise/backend/internal/service"
)

// RestaurantHandler serves the public catalogue.
type RestaurantHandler struct {
	restaurants service.IRestaurantService
}

func NewRestaurantHandler(restaurants service.IRestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants}
}

func (h *RestaurantHandler) RegisterRoutes(router *gin.RouterGroup, mw Middlewares) {
	restaurants := router.Group("/restaurants")
	{
		restaurants.GET("", h.List)
		restaurants.GET("/search", h.Search)
		restaurants.GET("/cities", h.Cities)
		restaurants.GET("/nearby", h.Nearby)
		restaurants.GET("/recommendations", with(h.Recommendations, mw.Auth, mw.RateLimit)...)
		restaurants.GET("/:id", h.Get)
	}
}

// listFilter reads the catalogue query parameters. q is accepted as an alias
// of search.
func listFilter(c *gin.Context) (service.ListFilter, error) {
	f := service.ListFilter{
		Cuisine: strings.TrimSpace(c.Query("cuisine")),
		City:    strings.TrimSpace(c.Query("city")),
		Search:  strings.TrimSpace(c.Query("search")),
	}
	if f.Search == "" {
		f.Search = strings.TrimSpace(c.Query("q"))
	}

	var err error
	if f.MinRating, err = floatQuery(c, "minRating"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = intQuery(c, "maxPrice"); err != nil {
		return f, err
	}
	page, err := intQuery(c, "page")
	if err != nil {
		return f, err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return f, err
	}
	f.Page, f.Limit = deref(page), deref(limit)
	return f, nil
}

func (h *RestaurantHandler) List(c *gin.Context) {
	f, err := listFilter(c)
	if err != nil {
		badQuery(c, err)
		return
	}
	page, err := h.restaurants.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRestaurantList(page))
}

func (h *RestaurantHandler) Search(c *gin.Context) {
	f, err := listFilter(c)
	if err != nil {
		badQuery(c, err)
		return
	}
	page, err := h.restaurants.Search(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRestaurantList(page))
}

func (h *RestaurantHandler) Cities(c *gin.Context) {
	cities, err := h.restaurants.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cities": cities})
}

func (h *RestaurantHandler) Nearby(c *gin.Context) {
	lat, err := floatQuery(c, "lat")
	if err != nil {
		badQuery(c, err)
		return
	}
	lng, err := floatQuery(c, "lng")
	if err != nil {
		badQuery(c, err)
		return
	}
	if lat == nil || lng == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	radius, err := floatQuery(c, "radius_km")
	if err != nil {
		badQuery(c, err)
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		badQuery(c, err)
		return
	}

	r := 0.0
	if radius != nil {
		r = *radius
	}
	list, err := h.restaurants.Nearby(c.Request.Context(), *lat, *lng, r, deref(limit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(list), "restaurants": list})
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	r, err := h.restaurants.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "restaurant": r})
}

// Recommendations lists restaurants matching the caller's stored preferences.
func (h *RestaurantHandler) Recommendations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
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

	res, err := h.restaurants.PreferenceRecommendations(c.Request.Context(), userID, deref(page), deref(limit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"total":           res.Total,
		"page":            res.Page,
		"pages":           res.Pages,
		"recommendations": res.Recommendations,
		"preferencesUsed": res.PreferencesUsed,
	})
}
