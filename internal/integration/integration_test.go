package integration

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/metrics"
	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/server"
	"github.com/pageza/dinewise/backend/internal/testhelpers"
	"github.com/pageza/dinewise/backend/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: "0", ShutdownTimeout: time.Second},
		JWT:       config.JWTConfig{Secret: "integration-secret-with-enough-length", TTL: time.Hour},
		Recommend: config.RecommendConfig{CandidatePoolSize: 1000, DefaultLimit: 6, CacheEnabled: true, CacheTTL: time.Minute},
		RateLimit: config.RateLimitConfig{Window: time.Minute, Requests: 100},
		CORS:      config.CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) call(method, path string, body, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func seedCatalogue(t *testing.T, db *gorm.DB) map[string]*models.Restaurant {
	t.Helper()
	out := map[string]*models.Restaurant{}
	for _, r := range []models.Restaurant{
		{Name: "Vaishali", City: "Pune", Cuisines: models.JSONBStringArray{"South Indian", "Cafe"}, PriceLevel: 1, Rating: 4.5, Latitude: 18.5204, Longitude: 73.8411},
		{Name: "Malaka Spice", City: "Pune", Cuisines: models.JSONBStringArray{"Thai", "Asian"}, PriceLevel: 3, Rating: 4.6, Latitude: 18.5362, Longitude: 73.8940},
		{Name: "Cafe Goodluck", City: "Pune", Cuisines: models.JSONBStringArray{"Cafe", "Iranian"}, PriceLevel: 2, Rating: 4.2, Latitude: 18.5167, Longitude: 73.8415},
		{Name: "Indian Accent", City: "New Delhi", Cuisines: models.JSONBStringArray{"North Indian"}, PriceLevel: 4, Rating: 4.9, Latitude: 28.5921, Longitude: 77.2430},
	} {
		out[r.Name] = testhelpers.CreateRestaurant(t, db, r)
	}
	return out
}

func names(list []models.Restaurant) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Name)
	}
	return out
}

func TestIntegrationRegisterFavoriteRecommend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLiteDB(t)
	catalogue := seedCatalogue(t, db)

	ts := httptest.NewServer(server.New(testConfig(), db, nil, nil).Handler())
	defer ts.Close()
	c := &client{t: t, base: ts.URL + "/api/v1"}

	var auth types.AuthResponse
	status := c.call(http.MethodPost, "/auth/register", types.RegisterRequest{
		Username: "meera", Email: "meera@example.com", Password: "secret123",
	}, &auth)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, auth.Token)
	c.token = auth.Token

	// no favorites yet, so the highest rated restaurants come first
	var recs struct {
		Algorithm       string              `json:"algorithm"`
		Recommendations []models.Restaurant `json:"recommendations"`
	}
	path := fmt.Sprintf("/ml/%s/recommendations?limit=2", auth.User.ID)
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, path, nil, &recs))
	assert.Equal(t, "fallback_popular", recs.Algorithm)
	assert.Equal(t, []string{"Indian Accent", "Malaka Spice"}, names(recs.Recommendations))

	for _, name := range []string{"Vaishali", "Cafe Goodluck"} {
		status := c.call(http.MethodPost, "/users/favorites/"+catalogue[name].ID.String(), nil, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	require.Equal(t, http.StatusOK, c.call(http.MethodGet, path, nil, &recs))
	assert.Equal(t, "location_based", recs.Algorithm)
	assert.Equal(t, []string{"Malaka Spice", "Vaishali"}, names(recs.Recommendations))

	var similar struct {
		SimilarRestaurants []models.Restaurant `json:"similarRestaurants"`
	}
	status = c.call(http.MethodGet, "/similarity/restaurants/"+catalogue["Vaishali"].ID.String()+"/similar?cuisine=cafe&limit=1", nil, &similar)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Cafe Goodluck"}, names(similar.SimilarRestaurants))

	c.token = ""
	assert.Equal(t, http.StatusUnauthorized, c.call(http.MethodGet, path, nil, nil))
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestIntegrationRedisCacheAndRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := startRedis(t)
	db := testhelpers.SetupSQLiteDB(t)
	catalogue := seedCatalogue(t, db)
	user := testhelpers.CreateUser(t, db, "cached", models.RoleUser)
	testhelpers.Favorite(t, db, user, catalogue["Vaishali"])

	cfg := testConfig()
	cfg.RateLimit.Requests = 3
	ts := httptest.NewServer(server.New(cfg, db, rdb, nil).Handler())
	defer ts.Close()
	c := &client{t: t, base: ts.URL + "/api/v1"}

	var auth types.AuthResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/auth/login", types.LoginRequest{
		Email: user.Email, Password: testhelpers.DefaultPassword,
	}, &auth))
	c.token = auth.Token

	hits := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("recommendations"))
	path := fmt.Sprintf("/ml/%s/recommendations", user.ID)
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, path, nil, nil))
	require.Equal(t, http.StatusOK, c.call(http.MethodGet, path, nil, nil))
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.CacheHits.WithLabelValues("recommendations")))

	keys, err := rdb.Keys(context.Background(), "recs:"+user.ID.String()+":*").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, keys)

	// login already used one slot of the shared window
	for i := 0; i < 2; i++ {
		c.call(http.MethodPost, "/auth/login", types.LoginRequest{Email: user.Email, Password: "wrong-password"}, nil)
	}
	status := c.call(http.MethodPost, "/auth/login", types.LoginRequest{Email: user.Email, Password: "wrong-password"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
}
