package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/testhelpers"
	"github.com/pageza/dinewise/backend/internal/types"
)

func TestDashboard(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "one", models.RoleUser)
	testhelpers.CreateUser(t, db, "two", models.RoleAdmin)
	r := seed(t, db, "A", "Pune", 2, 4)
	seed(t, db, "B", "Pune", 2, 4)
	gone := seed(t, db, "C", "Pune", 2, 4)
	_, err := service.NewReviewService(db).Create(context.Background(), user.ID, r.ID, &types.ReviewRequest{Rating: 4})
	require.NoError(t, err)
	require.NoError(t, service.NewRestaurantService(db).Delete(context.Background(), gone.ID))

	stats, err := service.NewAdminService(db).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &service.DashboardStats{TotalRestaurants: 2, TotalUsers: 2, TotalReviews: 1}, stats)
}
