package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/internal/models"
)

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	TotalRestaurants int64 `json:"totalRestaurants"`
	TotalUsers       int64 `json:"totalUsers"`
	TotalReviews     int64 `json:"totalReviews"`
}

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Restaurant{}).Count(&stats.TotalRestaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to count restaurants: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Review{}).Count(&stats.TotalReviews).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	return &stats, nil
}
