package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestaurantFavorite links a user to a restaurant they favorited. Rows are
// read back in CreatedAt order; IDs are UUIDv7 so rows sharing a timestamp
// still sort in insertion order.
type RestaurantFavorite struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_restaurant" json:"user_id"`
	RestaurantID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_restaurant;index" json:"restaurant_id"`
}

func (RestaurantFavorite) TableName() string {
	return "restaurant_favorites"
}

func (f *RestaurantFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		f.ID = id
	}
	return nil
}
