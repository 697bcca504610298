package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/testhelpers"
)

func TestSeed(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	testhelpers.CreateRestaurant(t, db, models.Restaurant{Name: "Low", City: "Pune", Rating: 3.1})
	testhelpers.CreateRestaurant(t, db, models.Restaurant{Name: "High", City: "Pune", Rating: 4.8})
	testhelpers.CreateRestaurant(t, db, models.Restaurant{Name: "Elsewhere", City: "Delhi", Rating: 4.9})

	users := []seedUser{
		{username: "boss", email: "boss@example.com", role: models.RoleAdmin},
		{username: "local", email: "local@example.com", role: models.RoleUser, location: "pune", favorites: 1},
	}

	created, err := seed(db, users, "secret123")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	var local models.User
	require.NoError(t, db.Where("email = ?", "local@example.com").First(&local).Error)
	assert.Equal(t, "pune", local.Preferences.Location)

	var favs []models.RestaurantFavorite
	require.NoError(t, db.Where("user_id = ?", local.ID).Find(&favs).Error)
	require.Len(t, favs, 1)

	var fav models.Restaurant
	require.NoError(t, db.First(&fav, "id = ?", favs[0].RestaurantID).Error)
	assert.Equal(t, "High", fav.Name)

	created, err = seed(db, users, "secret123")
	require.NoError(t, err)
	assert.Zero(t, created)
}
