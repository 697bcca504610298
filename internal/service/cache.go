package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/metrics"
)

const (
	recommendationCacheName = "recommendations"
	cacheBreakerName        = "redis-cache"
	cacheOpTimeout          = 200 * time.Millisecond
)

// RecommendationCache stores computed recommendation lists in Redis.
//
// Every Redis call goes through a circuit breaker. When Redis is down or the
// breaker is open, reads are misses and writes are dropped, so callers always
// fall back to computing the result. A nil *RecommendationCache is a valid
// cache that never hits.
type RecommendationCache struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
	ttl    time.Duration
}

// NewRecommendationCache returns nil when client is nil.
func NewRecommendationCache(client *redis.Client, ttl time.Duration) *RecommendationCache {
	if client == nil {
		return nil
	}
	metrics.CircuitBreakerState.WithLabelValues(cacheBreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cacheBreakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &RecommendationCache{client: client, cb: cb, ttl: ttl}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func versionKey(userID string) string {
	return "recs:" + userID + ":version"
}

// Get decodes the cached value for userID and params into dst. It reports
// whether dst was filled.
func (c *RecommendationCache) Get(ctx context.Context, userID, params string, dst interface{}) bool {
	if c == nil {
		return false
	}
	key, err := c.key(ctx, userID, params)
	if err != nil {
		metrics.CacheMisses.WithLabelValues(recommendationCacheName).Inc()
		return false
	}

	data, err := c.cb.Execute(func() ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		defer cancel()
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil || data == nil {
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("recommendation cache read failed")
		}
		metrics.CacheMisses.WithLabelValues(recommendationCacheName).Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		metrics.CacheMisses.WithLabelValues(recommendationCacheName).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(recommendationCacheName).Inc()
	return true
}

// Set stores value for userID and params. Failures are logged, never returned.
func (c *RecommendationCache) Set(ctx context.Context, userID, params string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to encode cache entry")
		return
	}
	key, err := c.key(ctx, userID, params)
	if err != nil {
		return
	}
	_, err = c.cb.Execute(func() ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		defer cancel()
		return nil, c.client.Set(ctx, key, data, c.ttl).Err()
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("recommendation cache write failed")
	}
}

// Invalidate drops every cached entry of userID by bumping its version.
// Old entries expire on their own.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	_, err := c.cb.Execute(func() ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		defer cancel()
		return nil, c.client.Incr(ctx, versionKey(userID)).Err()
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate recommendation cache")
	}
}

func (c *RecommendationCache) key(ctx context.Context, userID, params string) (string, error) {
	v, err := c.cb.Execute(func() ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		defer cancel()
		b, err := c.client.Get(ctx, versionKey(userID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return []byte("0"), nil
		}
		return b, err
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("recs:%s:v%s:%s", userID, v, params), nil
}
