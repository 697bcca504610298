package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/types"
)

// UserService handles profiles and favorites.
type UserService struct {
	db *gorm.DB
	// onFavoritesChanged runs after a favorite is added or removed.
	onFavoritesChanged func(ctx context.Context, userID uuid.UUID)
}

// NewUserService creates a UserService. onFavoritesChanged may be nil.
func NewUserService(db *gorm.DB, onFavoritesChanged func(ctx context.Context, userID uuid.UUID)) *UserService {
	return &UserService{db: db, onFavoritesChanged: onFavoritesChanged}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound, "load profile")
	}
	return &user, nil
}

// UpdateProfile changes username, email or preferences. A username or email
// held by another user yields ErrUserExists.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Username != nil || req.Email != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("id <> ? AND (username = ? OR email = ?)", userID, user.Username, user.Email).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if count > 0 {
			return nil, ErrUserExists
		}
	}
	if req.Preferences != nil {
		prefs := *req.Preferences
		if prefs.Cuisines == nil {
			prefs.Cuisines = []string{}
		}
		if prefs.PriceRange.Max > 0 && prefs.PriceRange.Min > prefs.PriceRange.Max {
			return nil, fmt.Errorf("%w: priceRange.min exceeds priceRange.max", ErrInvalidInput)
		}
		user.Preferences = prefs
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ListFavorites returns the user's favorite restaurants, oldest favorite first.
func (s *UserService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, error) {
	return FavoriteRestaurants(s.db.WithContext(ctx), userID)
}

// FavoriteRestaurants loads a user's favorites in the order they were added.
func FavoriteRestaurants(db *gorm.DB, userID uuid.UUID) ([]models.Restaurant, error) {
	var list []models.Restaurant
	err := db.Model(&models.Restaurant{}).
		Joins("JOIN restaurant_favorites ON restaurant_favorites.restaurant_id = restaurants.id").
		Where("restaurant_favorites.user_id = ?", userID).
		Order("restaurant_favorites.created_at ASC").
		Order("restaurant_favorites.id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return list, nil
}

func (s *UserService) AddFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", restaurantID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load restaurant: %w", err)
	}
	if count == 0 {
		return ErrRestaurantNotFound
	}

	fav := models.RestaurantFavorite{UserID: userID, RestaurantID: restaurantID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	s.favoritesChanged(ctx, userID)
	return nil
}

func (s *UserService) RemoveFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.RestaurantFavorite{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	s.favoritesChanged(ctx, userID)
	return nil
}

func (s *UserService) favoritesChanged(ctx context.Context, userID uuid.UUID) {
	if s.onFavoritesChanged != nil {
		s.onFavoritesChanged(ctx, userID)
	}
}
