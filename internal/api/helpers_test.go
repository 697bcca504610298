package api_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/api"
	"github.com/pageza/dinewise/backend/internal/middleware"
	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/testhelpers"
)

const testSecret = "api-test-secret-with-enough-length-123"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func setup(t *testing.T, store service.ObjectStore) *testEnv {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, testSecret, time.Hour, nil)
	restaurants := service.NewRestaurantService(db)
	recs := service.NewRecommendationService(db, restaurants, nil, config.RecommendConfig{
		CandidatePoolSize: 1000,
		DefaultLimit:      6,
	})

	router := gin.New()
	router.GET("/health", api.HealthCheck)
	api.RegisterRoutes(router.Group("/api/v1"), api.Services{
		Auth:            auth,
		Users:           service.NewUserService(db, recs.Invalidate),
		Restaurants:     restaurants,
		Reviews:         service.NewReviewService(db),
		Recommendations: recs,
		Behavior:        service.NewBehaviorService(db),
		Admin:           service.NewAdminService(db),
		Images:          service.NewImageService(store),
	}, api.Middlewares{
		Auth:  middleware.AuthMiddleware(auth),
		Admin: middleware.AdminOnly(),
	})

	return &testEnv{t: t, db: db, router: router, auth: auth}
}

func (e *testEnv) token(u *models.User) string {
	e.t.Helper()
	tok, err := e.auth.GenerateToken(u)
	require.NoError(e.t, err)
	return tok
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func restaurantNames(t *testing.T, v interface{}) []string {
	t.Helper()
	list, ok := v.([]interface{})
	require.True(t, ok, "expected a list, got %T", v)
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.(map[string]interface{})["name"].(string))
	}
	return out
}
