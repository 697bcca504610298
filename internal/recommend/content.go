package recommend

import (
	"fmt"
	"sort"
)

const (
	contentReasoning  = "Similar restaurants based on cuisine, price, and location"
	fallbackReasoning = "Popular restaurants in your area"
)

// ContentBased ranks the pool by similarity to a single target restaurant.
type ContentBased struct {
	Scorer Scorer
}

// NewContentBased returns a ContentBased recommender with default weights.
func NewContentBased() *ContentBased {
	return &ContentBased{Scorer: NewScorer()}
}

type scored struct {
	restaurant Restaurant
	score      float64
}

// Recommend ranks req.Candidates against the target restaurant. The target is
// req.TargetID when it is in the pool, otherwise the most recently added
// favorite. Without a target the popularity fallback is returned.
func (c *ContentBased) Recommend(req Request) (Result, error) {
	if req.Limit < 0 {
		return Result{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidInput, req.Limit)
	}
	limit := req.limit()

	target, ok := c.target(req)
	if !ok {
		return Fallback(req.Candidates, limit), nil
	}

	ranked := make([]scored, 0, len(req.Candidates))
	for _, cand := range req.Candidates {
		if cand.ID == target.ID || (req.TargetID != "" && cand.ID == req.TargetID) {
			continue
		}
		if score := c.Scorer.Score(target, cand); score > 0 {
			ranked = append(ranked, scored{restaurant: cand, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]Restaurant, 0, limit)
	for _, s := range ranked {
		if len(out) == limit {
			break
		}
		out = append(out, s.restaurant)
	}

	return Result{
		Recommendations: out,
		Algorithm:       StrategyContentBased,
		Reasoning:       contentReasoning,
	}, nil
}

// target resolves the reference restaurant. An explicit id missing from the
// pool counts as no target.
func (c *ContentBased) target(req Request) (Restaurant, bool) {
	if req.TargetID != "" {
		return findByID(req.Candidates, req.TargetID)
	}
	return LastFavorite(req.Favorites)
}

// LastFavorite returns the most recently added favorite.
func LastFavorite(favorites []Restaurant) (Restaurant, bool) {
	if len(favorites) == 0 {
		return Restaurant{}, false
	}
	return favorites[len(favorites)-1], true
}

// Fallback returns the pool's highest rated restaurants. Equal ratings keep
// pool order and the pool itself is left untouched.
func Fallback(pool []Restaurant, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Result{
		Recommendations: topRated(pool, limit),
		Algorithm:       StrategyFallbackPopular,
		Reasoning:       fallbackReasoning,
	}
}

func topRated(pool []Restaurant, limit int) []Restaurant {
	sorted := make([]Restaurant, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	return truncate(sorted, limit)
}
