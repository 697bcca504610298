package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_restaurant" json:"user_id"`
	RestaurantID uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_restaurant;index" json:"restaurant_id"`
	Rating       int            `gorm:"not null" json:"rating"`
	Comment      string         `gorm:"size:500" json:"comment"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
