package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/testhelpers"
	"github.com/pageza/dinewise/backend/internal/types"
)

func TestTrackAndRecentBehavior(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	user := testhelpers.CreateUser(t, db, "tracker", models.RoleUser)
	other := testhelpers.CreateUser(t, db, "other", models.RoleUser)
	svc := service.NewBehaviorService(db)
	ctx := context.Background()

	b, err := svc.Track(ctx, user.ID, &types.TrackBehaviorRequest{
		ActionType: models.ActionView,
		Metadata:   map[string]interface{}{"source": "home"},
	})
	require.NoError(t, err)
	assert.False(t, b.Timestamp.IsZero())

	for i := 0; i < service.RecentBehaviorLimit+5; i++ {
		require.NoError(t, db.Create(&models.UserBehavior{
			UserID:     user.ID,
			ActionType: models.ActionClick,
			Timestamp:  time.Now().Add(-time.Duration(i+1) * time.Minute),
		}).Error)
	}
	_, err = svc.Track(ctx, other.ID, &types.TrackBehaviorRequest{ActionType: models.ActionSearch})
	require.NoError(t, err)

	recent, err := svc.Recent(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, recent, service.RecentBehaviorLimit)
	assert.Equal(t, b.ID, recent[0].ID, "newest first")
	assert.Equal(t, "home", recent[0].Metadata["source"])
	for _, r := range recent {
		assert.Equal(t, user.ID, r.UserID)
	}
}
