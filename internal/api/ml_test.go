package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/testhelpers"
)

func TestMLRecommendations(t *testing.T) {
	env := setup(t, nil)
	byName := seedPune(t, env.db)
	user := testhelpers.CreateUser(t, env.db, "diner", models.RoleUser)
	other := testhelpers.CreateUser(t, env.db, "other", models.RoleUser)
	admin := testhelpers.CreateUser(t, env.db, "boss", models.RoleAdmin)
	path := "/api/v1/ml/" + user.ID.String() + "/recommendations"

	w := env.do(http.MethodGet, path+"?currentRestaurantId="+byName["p3"].ID.String()+"&limit=10", nil, env.token(user))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "location_focused", body["algorithm"])
	assert.Equal(t, "Restaurants in the same area", body["reasoning"])
	assert.EqualValues(t, 0, body["userFavoritesCount"])
	assert.Equal(t, []string{"p1", "p4", "p2", "p5"}, restaurantNames(t, body["recommendations"]))

	w = env.do(http.MethodGet, path, nil, env.token(user))
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "fallback_popular", body["algorithm"])
	assert.Len(t, body["recommendations"], 6)

	w = env.do(http.MethodGet, path+"?mode=content", nil, env.token(user))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fallback_popular", decode(t, w)["algorithm"], "no favorites and no target")

	for _, q := range []string{"?limit=abc", "?limit=51", "?limit=-1", "?mode=magic", "?latitude=north", "?currentRestaurantId=nope"} {
		w = env.do(http.MethodGet, path+q, nil, env.token(user))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w = env.do(http.MethodGet, path, nil, env.token(other))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, path, nil, env.token(admin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMLRecommendationsFollowFavorites(t *testing.T) {
	env := setup(t, nil)
	byName := seedPune(t, env.db)
	user := testhelpers.CreateUser(t, env.db, "fan", models.RoleUser)
	token := env.token(user)
	path := "/api/v1/ml/" + user.ID.String() + "/recommendations"

	w := env.do(http.MethodPost, "/api/v1/users/favorites/"+byName["d1"].ID.String(), nil, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "location_based", body["algorithm"])
	assert.Equal(t, "Based on your favorites in delhi", body["reasoning"])
	assert.EqualValues(t, 1, body["userFavoritesCount"])
	assert.Equal(t, []string{"d1"}, restaurantNames(t, body["recommendations"]))
}

func TestTrackBehavior(t *testing.T) {
	env := setup(t, nil)
	byName := seedPune(t, env.db)
	user := testhelpers.CreateUser(t, env.db, "clicker", models.RoleUser)
	token := env.token(user)

	w := env.do(http.MethodPost, "/api/v1/ml/track-behavior", map[string]interface{}{
		"restaurantId": byName["p1"].ID.String(),
		"actionType":   "view",
		"metadata":     map[string]interface{}{"source": "search"},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	w = env.do(http.MethodPost, "/api/v1/ml/track-behavior", map[string]interface{}{"actionType": "teleport"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/ml/"+user.ID.String()+"/behavior", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["count"])

	w = env.do(http.MethodGet, "/api/v1/ml/"+uuid.NewString()+"/behavior", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSimilarRestaurants(t *testing.T) {
	env := setup(t, nil)
	byName := seedPune(t, env.db)

	w := env.do(http.MethodGet, "/api/v1/similarity/restaurants/"+byName["p1"].ID.String()+"/similar", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []string{"p3"}, restaurantNames(t, body["similarRestaurants"]))
	assert.Equal(t, map[string]interface{}{"cuisine": "Cafe", "priceLevel": float64(2), "rating": 4.8}, body["basedOn"])

	w = env.do(http.MethodGet, "/api/v1/similarity/restaurants/"+uuid.NewString()+"/similar", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/v1/similarity/restaurants/"+byName["p1"].ID.String()+"/similar?limit=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
