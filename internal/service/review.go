package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/types"
)

// ReviewWithAuthor is a review plus the reviewer's username.
type ReviewWithAuthor struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewService handles reviews and keeps restaurant ratings in step with them.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ListForRestaurant returns a restaurant's reviews, newest first.
func (s *ReviewService) ListForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]ReviewWithAuthor, error) {
	var list []ReviewWithAuthor
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.id, reviews.user_id, users.username, reviews.restaurant_id, reviews.rating, reviews.comment, reviews.created_at, reviews.updated_at").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.restaurant_id = ?", restaurantID).
		Order("reviews.created_at DESC").
		Scan(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return list, nil
}

// Create adds the user's review of a restaurant. A second review by the same
// user yields ErrAlreadyReviewed.
func (s *ReviewService) Create(ctx context.Context, userID, restaurantID uuid.UUID, req *types.ReviewRequest) (*models.Review, error) {
	review := &models.Review{
		UserID:       userID,
		RestaurantID: restaurantID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Restaurant{}).Where("id = ?", restaurantID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to load restaurant: %w", err)
		}
		if count == 0 {
			return ErrRestaurantNotFound
		}
		if err := tx.Create(review).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("failed to create review: %w", err)
		}
		return recomputeRating(tx, restaurantID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Update changes a review owned by userID.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, req *types.ReviewRequest) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.owned(tx, userID, reviewID, &review); err != nil {
			return err
		}
		review.Rating = req.Rating
		review.Comment = req.Comment
		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return recomputeRating(tx, review.RestaurantID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes a review owned by userID. The row is hard-deleted so the
// user may review the restaurant again.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := s.owned(tx, userID, reviewID, &review); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return recomputeRating(tx, review.RestaurantID)
	})
}

func (s *ReviewService) owned(tx *gorm.DB, userID, reviewID uuid.UUID, review *models.Review) error {
	if err := tx.First(review, "id = ?", reviewID).Error; err != nil {
		return notFound(err, ErrReviewNotFound, "load review")
	}
	if review.UserID != userID {
		return ErrForbidden
	}
	return nil
}

// recomputeRating sets the restaurant's rating to the mean of its reviews,
// rounded to one decimal. A restaurant with no reviews keeps its rating.
func recomputeRating(tx *gorm.DB, restaurantID uuid.UUID) error {
	var agg struct {
		Count int64
		Avg   float64
	}
	if err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Where("restaurant_id = ?", restaurantID).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	if agg.Count == 0 {
		return nil
	}

	rating := math.Round(agg.Avg*10) / 10
	if err := tx.Model(&models.Restaurant{}).Where("id = ?", restaurantID).
		UpdateColumn("rating", rating).Error; err != nil {
		return fmt.Errorf("failed to update restaurant rating: %w", err)
	}
	return nil
}
