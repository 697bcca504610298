package recommend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryCity(t *testing.T) {
	tests := []struct {
		name      string
		favorites []Restaurant
		want      string
	}{
		{
			name: "majority wins",
			favorites: []Restaurant{
				restaurant("1", "CityA", "", 2, 4),
				restaurant("2", "CityB", "", 2, 4),
				restaurant("3", "CityA", "", 2, 4),
			},
			want: "citya",
		},
		{
			name: "tie keeps first seen",
			favorites: []Restaurant{
				restaurant("1", "CityA", "", 2, 4),
				restaurant("2", "CityB", "", 2, 4),
			},
			want: "citya",
		},
		{
			name: "case insensitive tally",
			favorites: []Restaurant{
				restaurant("1", "Pune", "", 2, 4),
				restaurant("2", "Delhi", "", 2, 4),
				restaurant("3", "Delhi", "", 2, 4),
				restaurant("4", "PUNE", "", 2, 4),
				restaurant("5", " pune", "", 2, 4),
			},
			want: "pune",
		},
		{
			name: "favorites without cities",
			favorites: []Restaurant{
				restaurant("1", "", "", 2, 4),
				restaurant("2", "  ", "", 2, 4),
			},
			want: "",
		},
		{name: "no favorites", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryCity(tt.favorites))
		})
	}
}

func punePool() []Restaurant {
	return []Restaurant{
		restaurant("p1", "Pune", "Baner", 2, 4.8, "Cafe"),
		restaurant("p2", "Pune", "Aundh", 3, 4.2, "Thai"),
		restaurant("p3", "Pune", "Kothrud", 2, 3.9, "Cafe"),
		restaurant("p4", "Pune", "Camp", 1, 4.5, "Bakery"),
		restaurant("p5", "Pune", "Wakad", 4, 2.0, "Mughlai"),
	}
}

func TestHybridLocationFocusedEndToEnd(t *testing.T) {
	pool := punePool()

	res := NewHybrid(nil).Recommend(Request{Candidates: pool, TargetID: "p3", Limit: 10})

	assert.Equal(t, StrategyLocationFocused, res.Algorithm)
	assert.Equal(t, "Restaurants in the same area", res.Reasoning)
	assert.Equal(t, []string{"p1", "p4", "p2", "p5"}, ids(res.Recommendations))

	ratings := make([]float64, 0, len(res.Recommendations))
	for _, r := range res.Recommendations {
		ratings = append(ratings, r.Rating)
	}
	assert.Equal(t, []float64{4.8, 4.5, 4.2, 2.0}, ratings)

	limited := NewHybrid(nil).Recommend(Request{Candidates: pool, TargetID: "p3", Limit: 2})
	assert.Equal(t, []string{"p1", "p4"}, ids(limited.Recommendations))

	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(pool), "pool order is preserved")
}

func TestHybridLocationBased(t *testing.T) {
	pool := append(punePool(),
		restaurant("d1", "Delhi", "", 2, 5.0, "Mughlai"),
		restaurant("d2", "delhi", "", 2, 4.0, "Mughlai"),
	)
	favorites := []Restaurant{
		restaurant("x", "DELHI", "", 2, 3.0),
		restaurant("p1", "Pune", "Baner", 2, 4.8, "Cafe"),
		restaurant("y", "Delhi", "", 2, 3.0),
	}

	res := NewHybrid(nil).Recommend(Request{Candidates: pool, Favorites: favorites, TargetID: "p3"})

	assert.Equal(t, StrategyLocationBased, res.Algorithm)
	assert.Equal(t, "Based on your favorites in delhi", res.Reasoning)
	assert.Equal(t, []string{"d1", "d2"}, ids(res.Recommendations))
}

func TestHybridFavoritesWithoutCityFallBack(t *testing.T) {
	favorites := []Restaurant{restaurant("x", "", "", 2, 3.0)}

	res := NewHybrid(nil).Recommend(Request{Candidates: punePool(), Favorites: favorites, Limit: 3})

	assert.Equal(t, StrategyFallbackPopular, res.Algorithm)
	assert.Equal(t, []string{"p1", "p4", "p2"}, ids(res.Recommendations))
}

func TestHybridFallbackBranches(t *testing.T) {
	pool := append(punePool(), restaurant("nocity", "", "", 2, 4.9))

	tests := []struct {
		name string
		req  Request
	}{
		{"no signals", Request{Candidates: pool}},
		{"unknown current restaurant", Request{Candidates: pool, TargetID: "missing"}},
		{"current restaurant without city", Request{Candidates: pool, TargetID: "nocity"}},
		{"empty pool", Request{TargetID: "p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewHybrid(nil).Recommend(tt.req)
			assert.Equal(t, StrategyFallbackPopular, res.Algorithm)
			assert.Equal(t, "Popular restaurants in your area", res.Reasoning)
			assert.NotNil(t, res.Recommendations)
		})
	}
}

func TestHybridConvertsErrorsToFallback(t *testing.T) {
	var reported []error
	h := NewHybrid(func(err error) { reported = append(reported, err) })

	res := h.Recommend(Request{Candidates: punePool(), TargetID: "p3", Limit: -5})

	assert.Equal(t, StrategyFallbackPopular, res.Algorithm)
	assert.Len(t, res.Recommendations, len(punePool()))
	require.Len(t, reported, 1)
	assert.True(t, errors.Is(reported[0], ErrInvalidInput))
}

func TestHybridIsIdempotent(t *testing.T) {
	req := Request{
		Candidates: punePool(),
		Favorites:  []Restaurant{restaurant("p2", "Pune", "Aundh", 3, 4.2, "Thai")},
		Limit:      3,
	}
	h := NewHybrid(nil)
	assert.Equal(t, h.Recommend(req), h.Recommend(req))
}
