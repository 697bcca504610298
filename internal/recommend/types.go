// Package recommend ranks restaurants for a user from favorites, the
// restaurant being browsed and location signals.
//
// Everything in this package is synchronous and works on slices the caller
// has already fetched. Nothing is retained between calls, so a single value
// of any recommender may be shared across goroutines.
package recommend

import (
	"errors"
	"strings"
)

// DefaultLimit is used when a request carries no positive limit.
const DefaultLimit = 6

var (
	// ErrNotFound reports that a referenced restaurant is absent from the pool.
	ErrNotFound = errors.New("restaurant not found")

	// ErrInvalidInput reports malformed request parameters.
	ErrInvalidInput = errors.New("invalid input")
)

// Strategy identifies the ranking path that produced a Result.
type Strategy string

const (
	StrategyContentBased    Strategy = "content_based"
	StrategyFallbackPopular Strategy = "fallback_popular"
	StrategyLocationBased   Strategy = "location_based"
	StrategyLocationFocused Strategy = "location_focused"
)

// Restaurant is the normalized restaurant shape the recommenders work on.
// Callers keep PriceLevel within [1,4] and Rating within [0,5]; a zero
// PriceLevel means the level is unknown.
type Restaurant struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Cuisines   []string `json:"cuisines"`
	PriceLevel int      `json:"priceLevel"`
	Rating     float64  `json:"rating"`
	City       string   `json:"city"`
	Locality   string   `json:"locality"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Request carries everything a recommendation call ranks over.
type Request struct {
	// UserID is informational; it never affects ranking.
	UserID string

	// Candidates is the full universe of restaurants to rank, in pool order.
	Candidates []Restaurant

	// Favorites is ordered oldest first; the last element is the most
	// recently added favorite.
	Favorites []Restaurant

	// TargetID is the restaurant currently being browsed, if any.
	TargetID string

	// Location is accepted but not used for scoring.
	Location *GeoPoint

	// PreferredCuisine overrides cuisine selection where a recommender uses one.
	PreferredCuisine string

	// Limit caps the result size. Zero selects DefaultLimit.
	Limit int
}

func (r Request) limit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// Result is a ranked list plus the strategy that produced it.
type Result struct {
	Recommendations []Restaurant `json:"recommendations"`
	Algorithm       Strategy     `json:"algorithm"`
	Reasoning       string       `json:"reasoning"`
}

// canonical folds a city, locality or cuisine for comparison.
func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func findByID(pool []Restaurant, id string) (Restaurant, bool) {
	for _, r := range pool {
		if r.ID == id {
			return r, true
		}
	}
	return Restaurant{}, false
}

func truncate(list []Restaurant, limit int) []Restaurant {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
