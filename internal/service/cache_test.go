package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/dinewise/backend/internal/types"
)

func TestNilCacheIsUsable(t *testing.T) {
	var c *RecommendationCache
	assert.Nil(t, NewRecommendationCache(nil, time.Minute))

	var dst UserRecommendations
	assert.False(t, c.Get(context.Background(), "u", "p", &dst))
	c.Set(context.Background(), "u", "p", dst)
	c.Invalidate(context.Background(), "u")
}

func TestCacheOpensBreakerWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	c := NewRecommendationCache(client, time.Minute)

	var dst UserRecommendations
	for i := 0; i < 6; i++ {
		assert.False(t, c.Get(context.Background(), "u", "p", &dst))
	}
	assert.Equal(t, gobreaker.StateOpen, c.cb.State())
}

func TestBreakerStateValue(t *testing.T) {
	assert.Equal(t, 0.0, breakerStateValue(gobreaker.StateClosed))
	assert.Equal(t, 1.0, breakerStateValue(gobreaker.StateHalfOpen))
	assert.Equal(t, 2.0, breakerStateValue(gobreaker.StateOpen))
}

func TestCacheParams(t *testing.T) {
	lat, lng := 18.52041, 73.85674
	q := &types.RecommendationQuery{Mode: ModeHybrid, CurrentRestaurantID: "r1", Cuisine: "Cafe", Latitude: &lat, Longitude: &lng}
	assert.Equal(t, "hybrid:r1:Cafe:6:18.5204:73.8567", cacheParams(q, 6))
	assert.Equal(t, "content:::3:-:-", cacheParams(&types.RecommendationQuery{Mode: ModeContent}, 3))
}
