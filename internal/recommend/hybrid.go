package recommend

import (
	"fmt"
	"sort"
)

const sameAreaReasoning = "Restaurants in the same area"

// Hybrid picks a location strategy from the request signals. It never fails:
// any error inside a strategy turns the call into the popularity fallback.
//
// Ranking on this path is by rating within a city. Cuisine and price
// similarity are not consulted.
type Hybrid struct {
	// OnError, when set, receives errors and recovered panics that caused a
	// fallback. It is called synchronously.
	OnError func(error)
}

// NewHybrid returns a Hybrid recommender.
func NewHybrid(onError func(error)) *Hybrid {
	return &Hybrid{OnError: onError}
}

// Recommend returns a ranked result for req.
func (h *Hybrid) Recommend(req Request) Result {
	res, err := h.guard(req)
	if err != nil {
		if h.OnError != nil {
			h.OnError(err)
		}
		return Fallback(req.Candidates, req.limit())
	}
	return res
}

func (h *Hybrid) guard(req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hybrid strategy panicked: %v", r)
		}
	}()
	return h.selectStrategy(req)
}

func (h *Hybrid) selectStrategy(req Request) (Result, error) {
	if req.Limit < 0 {
		return Result{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidInput, req.Limit)
	}
	limit := req.limit()

	if len(req.Favorites) > 0 {
		city := PrimaryCity(req.Favorites)
		if city == "" {
			return Fallback(req.Candidates, limit), nil
		}
		return Result{
			Recommendations: rankByRating(inCity(req.Candidates, city, ""), limit),
			Algorithm:       StrategyLocationBased,
			Reasoning:       fmt.Sprintf("Based on your favorites in %s", city),
		}, nil
	}

	if req.TargetID == "" {
		return Fallback(req.Candidates, limit), nil
	}
	current, ok := findByID(req.Candidates, req.TargetID)
	if !ok || canonical(current.City) == "" {
		return Fallback(req.Candidates, limit), nil
	}
	return Result{
		Recommendations: rankByRating(inCity(req.Candidates, current.City, current.ID), limit),
		Algorithm:       StrategyLocationFocused,
		Reasoning:       sameAreaReasoning,
	}, nil
}

// rankByRating sorts list in place by rating, highest first, keeping input
// order on ties.
func rankByRating(list []Restaurant, limit int) []Restaurant {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Rating > list[j].Rating
	})
	return truncate(list, limit)
}
