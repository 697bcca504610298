package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func restaurant(id, city, locality string, price int, rating float64, cuisines ...string) Restaurant {
	return Restaurant{
		ID:         id,
		Name:       "Restaurant " + id,
		Cuisines:   cuisines,
		PriceLevel: price,
		Rating:     rating,
		City:       city,
		Locality:   locality,
	}
}

func TestLocationSimilarity(t *testing.T) {
	ref := restaurant("r", "Pune", "Baner", 2, 4, "Cafe")

	tests := []struct {
		name string
		cand Restaurant
		want float64
	}{
		{"same city and locality", restaurant("a", "pune", " baner ", 2, 4), 1.0},
		{"same city other locality", restaurant("b", "PUNE", "Kothrud", 2, 4), 0.8},
		{"same city missing locality", restaurant("c", "Pune", "", 2, 4), 0.8},
		{"other city", restaurant("d", "Mumbai", "Baner", 2, 4), 0.1},
		{"missing city", restaurant("e", "", "Baner", 2, 4), 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocationSimilarity(ref, tt.cand))
		})
	}

	assert.Equal(t, 0.8, LocationSimilarity(restaurant("x", "Pune", "", 2, 4), restaurant("y", "Pune", "", 2, 4)))
	assert.Equal(t, 0.1, LocationSimilarity(restaurant("x", "", "", 2, 4), restaurant("y", "", "", 2, 4)))
}

func TestCuisineSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, CuisineSimilarity([]string{"Italian", "Pizza"}, []string{"pizza", "ITALIAN"}))
	assert.Equal(t, 0.0, CuisineSimilarity([]string{"Italian"}, []string{"Thai"}))
	assert.Equal(t, 0.0, CuisineSimilarity(nil, []string{"Thai"}))
	assert.Equal(t, 0.0, CuisineSimilarity([]string{"Thai"}, []string{}))
	assert.InDelta(t, 1.0/3.0, CuisineSimilarity([]string{"Italian", "Pizza"}, []string{"Pizza", "Burger"}), 1e-9)

	a := []string{"North Indian", "Chinese", "Mughlai"}
	b := []string{"Chinese", "Thai"}
	assert.Equal(t, CuisineSimilarity(a, b), CuisineSimilarity(b, a))
}

func TestPriceSimilarity(t *testing.T) {
	assert.Equal(t, 0.25, PriceSimilarity(1, 4))
	assert.Equal(t, 1.0, PriceSimilarity(3, 3))
	assert.Equal(t, 0.75, PriceSimilarity(2, 3))
	assert.Equal(t, 0.5, PriceSimilarity(1, 3))
	assert.Equal(t, 1.0, PriceSimilarity(0, 2), "unknown level reads as 2")
	assert.Equal(t, 0.0, PriceSimilarity(1, 5))

	for a := 1; a <= 4; a++ {
		for b := 1; b <= 4; b++ {
			assert.Equal(t, PriceSimilarity(a, b), PriceSimilarity(b, a))
		}
	}
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer()
	pool := []Restaurant{
		restaurant("1", "Pune", "Baner", 1, 4.5, "Cafe", "Bakery"),
		restaurant("2", "pune", "baner", 1, 4.0, "cafe", "bakery"),
		restaurant("3", "Delhi", "", 4, 2.0, "Mughlai"),
		restaurant("4", "", "", 0, 0),
		restaurant("5", "Pune", "Kothrud", 3, 3.5, "Bakery", "Desserts"),
	}
	for _, a := range pool {
		for _, b := range pool {
			s := scorer.Score(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0+1e-9)
		}
	}

	assert.InDelta(t, 1.0, scorer.Score(pool[0], pool[1]), 1e-9)
	// different cities, no shared cuisine, three price levels apart
	assert.InDelta(t, 0.06+0.025, scorer.Score(pool[0], pool[2]), 1e-9)
}
