package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/internal/models"
)

// DefaultPassword is the plain-text password of users made by CreateUser.
const DefaultPassword = "password123"

// CreateUser inserts a user with DefaultPassword and the given role.
func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		Preferences:  models.DefaultPreferences(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateRestaurant inserts r and returns it with its generated ID.
func CreateRestaurant(t *testing.T, db *gorm.DB, r models.Restaurant) *models.Restaurant {
	t.Helper()
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("failed to create restaurant %s: %v", r.Name, err)
	}
	return &r
}

// Favorite links user to each restaurant in order.
func Favorite(t *testing.T, db *gorm.DB, user *models.User, restaurants ...*models.Restaurant) {
	t.Helper()
	for _, r := range restaurants {
		fav := models.RestaurantFavorite{UserID: user.ID, RestaurantID: r.ID}
		if err := db.Create(&fav).Error; err != nil {
			t.Fatalf("failed to favorite %s: %v", r.Name, err)
		}
	}
}
