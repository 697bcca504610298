package recommend

import (
	"fmt"
	"math"
	"sort"
)

const unknownRating = 3.0

// Criteria describes the reference values a similar-restaurant search used.
type Criteria struct {
	Cuisine    string  `json:"cuisine"`
	PriceLevel int     `json:"priceLevel"`
	Rating     float64 `json:"rating"`
}

// SimilarFinder matches restaurants falling in price and rating windows
// around a reference restaurant.
type SimilarFinder struct{}

// NewSimilarFinder returns a SimilarFinder.
func NewSimilarFinder() *SimilarFinder {
	return &SimilarFinder{}
}

// FindSimilar returns restaurants from pool resembling referenceID. cuisine,
// when non-empty, replaces the reference's first cuisine as the required
// tag. The result is ordered by rating, then cheaper first.
func (f *SimilarFinder) FindSimilar(referenceID string, pool []Restaurant, cuisine string, limit int) ([]Restaurant, Criteria, error) {
	if limit < 0 {
		return nil, Criteria{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidInput, limit)
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	ref, ok := findByID(pool, referenceID)
	if !ok {
		return nil, Criteria{}, fmt.Errorf("%w: %s", ErrNotFound, referenceID)
	}

	criteria := Criteria{Cuisine: cuisine, PriceLevel: ref.PriceLevel, Rating: ref.Rating}
	if criteria.Cuisine == "" && len(ref.Cuisines) > 0 {
		criteria.Cuisine = ref.Cuisines[0]
	}
	if criteria.PriceLevel == 0 {
		criteria.PriceLevel = unknownPriceLevel
	}
	if criteria.Rating == 0 {
		criteria.Rating = unknownRating
	}

	minPrice, maxPrice := max(1, criteria.PriceLevel-1), min(4, criteria.PriceLevel+1)
	minRating, maxRating := math.Max(0, criteria.Rating-1), math.Min(5, criteria.Rating+1)
	want := canonical(criteria.Cuisine)

	matches := make([]Restaurant, 0)
	for _, cand := range pool {
		if cand.ID == ref.ID {
			continue
		}
		if want != "" && !hasCuisine(cand, want) {
			continue
		}
		if cand.PriceLevel < minPrice || cand.PriceLevel > maxPrice {
			continue
		}
		if cand.Rating < minRating || cand.Rating > maxRating {
			continue
		}
		matches = append(matches, cand)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Rating != matches[j].Rating {
			return matches[i].Rating > matches[j].Rating
		}
		return matches[i].PriceLevel < matches[j].PriceLevel
	})
	return truncate(matches, limit), criteria, nil
}

func hasCuisine(r Restaurant, want string) bool {
	for _, c := range r.Cuisines {
		if canonical(c) == want {
			return true
		}
	}
	return false
}
