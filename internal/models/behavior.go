package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Behavior action types.
const (
	ActionView     = "view"
	ActionClick    = "click"
	ActionFavorite = "favorite"
	ActionReview   = "review"
	ActionSearch   = "search"
	ActionShare    = "share"
)

// UserBehavior records one interaction of a user with the app.
type UserBehavior struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	RestaurantID string    `gorm:"size:36;index" json:"restaurant_id,omitempty"`
	ActionType   string    `gorm:"size:20;not null" json:"action_type"`
	Metadata     JSONMap   `gorm:"type:jsonb" json:"metadata"`
	Timestamp    time.Time `gorm:"not null;index" json:"timestamp"`
}

func (b *UserBehavior) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now()
	}
	return nil
}
