package api

import (
	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/recommend"
	"github.com/pageza/dinewise/backend/internal/service"
)

// RestaurantListResponse is returned by the catalogue list and search.
type RestaurantListResponse struct {
	Success     bool                `json:"success"`
	Count       int                 `json:"count"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	Pages       int                 `json:"pages"`
	Restaurants []models.Restaurant `json:"restaurants"`
}

func newRestaurantList(p *service.RestaurantPage) RestaurantListResponse {
	list := p.Restaurants
	if list == nil {
		list = []models.Restaurant{}
	}
	return RestaurantListResponse{
		Success:     true,
		Count:       len(list),
		Total:       p.Total,
		Page:        p.Page,
		Pages:       p.Pages,
		Restaurants: list,
	}
}

// RecommendationResponse is returned by GET /ml/:userId/recommendations.
type RecommendationResponse struct {
	Success            bool                `json:"success"`
	Recommendations    []models.Restaurant `json:"recommendations"`
	Algorithm          recommend.Strategy  `json:"algorithm"`
	Reasoning          string              `json:"reasoning"`
	UserFavoritesCount int                 `json:"userFavoritesCount"`
}

// SimilarResponse is returned by the similar-restaurants endpoint.
type SimilarResponse struct {
	Success            bool                `json:"success"`
	SimilarRestaurants []models.Restaurant `json:"similarRestaurants"`
	BasedOn            recommend.Criteria  `json:"basedOn"`
}
