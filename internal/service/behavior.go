package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/types"
)

// RecentBehaviorLimit is how many actions GET /ml/:userId/behavior returns.
const RecentBehaviorLimit = 50

// BehaviorService records what users do so later ranking can learn from it.
type BehaviorService struct {
	db *gorm.DB
}

func NewBehaviorService(db *gorm.DB) *BehaviorService {
	return &BehaviorService{db: db}
}

func (s *BehaviorService) Track(ctx context.Context, userID uuid.UUID, req *types.TrackBehaviorRequest) (*models.UserBehavior, error) {
	b := &models.UserBehavior{
		UserID:       userID,
		RestaurantID: req.RestaurantID,
		ActionType:   req.ActionType,
		Metadata:     models.JSONMap(req.Metadata),
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("failed to track behavior: %w", err)
	}
	return b, nil
}

// Recent returns the user's latest actions, newest first.
func (s *BehaviorService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.UserBehavior, error) {
	if limit <= 0 || limit > RecentBehaviorLimit {
		limit = RecentBehaviorLimit
	}
	var list []models.UserBehavior
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load behavior: %w", err)
	}
	return list, nil
}
