package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/metrics"
	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/recommend"
	"github.com/pageza/dinewise/backend/internal/types"
)

// Recommendation modes accepted by ForUser.
const (
	ModeHybrid  = "hybrid"
	ModeContent = "content"
)

// UserRecommendations is the payload of the ML recommendation endpoint.
type UserRecommendations struct {
	Recommendations    []models.Restaurant `json:"recommendations"`
	Algorithm          recommend.Strategy  `json:"algorithm"`
	Reasoning          string              `json:"reasoning"`
	UserFavoritesCount int                 `json:"userFavoritesCount"`
}

// RecommendationService feeds the recommenders from the database and caches
// their output per user.
type RecommendationService struct {
	db          *gorm.DB
	restaurants *RestaurantService
	cache       *RecommendationCache
	cfg         config.RecommendConfig
	hybrid      *recommend.Hybrid
	content     *recommend.ContentBased
	similar     *recommend.SimilarFinder
}

// NewRecommendationService creates a RecommendationService. cache may be nil.
func NewRecommendationService(db *gorm.DB, restaurants *RestaurantService, cache *RecommendationCache, cfg config.RecommendConfig) *RecommendationService {
	if !cfg.CacheEnabled {
		cache = nil
	}
	return &RecommendationService{
		db:          db,
		restaurants: restaurants,
		cache:       cache,
		cfg:         cfg,
		content:     recommend.NewContentBased(),
		similar:     recommend.NewSimilarFinder(),
		hybrid: recommend.NewHybrid(func(err error) {
			metrics.RecommendationFallbacks.Inc()
			logging.WithComponent("recommend").Error().Err(err).Msg("hybrid recommendation failed, serving popular restaurants")
		}),
	}
}

func cacheParams(q *types.RecommendationQuery, limit int) string {
	lat, lng := "-", "-"
	if q.Latitude != nil && q.Longitude != nil {
		lat, lng = fmt.Sprintf("%.4f", *q.Latitude), fmt.Sprintf("%.4f", *q.Longitude)
	}
	return fmt.Sprintf("%s:%s:%s:%d:%s:%s", q.Mode, q.CurrentRestaurantID, q.Cuisine, limit, lat, lng)
}

// ForUser ranks the candidate pool for userID.
func (s *RecommendationService) ForUser(ctx context.Context, userID uuid.UUID, q *types.RecommendationQuery) (*UserRecommendations, error) {
	if q == nil {
		q = &types.RecommendationQuery{}
	}
	if q.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}
	if q.Mode == "" {
		q.Mode = ModeHybrid
	}
	limit := q.Limit
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}

	params := cacheParams(q, limit)
	var cached UserRecommendations
	if s.cache.Get(ctx, userID.String(), params, &cached) {
		return &cached, nil
	}

	start := time.Now()
	pool, err := s.restaurants.CandidatePool(ctx, s.cfg.CandidatePoolSize)
	if err != nil {
		return nil, err
	}
	favorites, err := FavoriteRestaurants(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	req := recommend.Request{
		UserID:           userID.String(),
		Candidates:       models.Records(pool),
		Favorites:        models.Records(favorites),
		TargetID:         q.CurrentRestaurantID,
		PreferredCuisine: q.Cuisine,
		Limit:            limit,
	}
	if q.Latitude != nil && q.Longitude != nil {
		req.Location = &recommend.GeoPoint{Latitude: *q.Latitude, Longitude: *q.Longitude}
	}

	var res recommend.Result
	switch q.Mode {
	case ModeContent:
		res, err = s.content.Recommend(req)
		if err != nil {
			return nil, fmt.Errorf("failed to rank restaurants: %w", err)
		}
	case ModeHybrid:
		res = s.hybrid.Recommend(req)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, q.Mode)
	}
	metrics.RecordRecommendation("ml", string(res.Algorithm), len(pool), time.Since(start))

	out := &UserRecommendations{
		Recommendations:    resolve(pool, res.Recommendations),
		Algorithm:          res.Algorithm,
		Reasoning:          res.Reasoning,
		UserFavoritesCount: len(favorites),
	}
	s.cache.Set(ctx, userID.String(), params, out)

	logging.Ctx(ctx).Debug().
		Str("algorithm", string(res.Algorithm)).
		Int("pool", len(pool)).
		Int("favorites", len(favorites)).
		Int("results", len(out.Recommendations)).
		Msg("recommendations computed")
	return out, nil
}

// Similar returns restaurants resembling restaurantID together with the
// reference values used.
func (s *RecommendationService) Similar(ctx context.Context, restaurantID uuid.UUID, cuisine string, limit int) ([]models.Restaurant, recommend.Criteria, error) {
	ref, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return nil, recommend.Criteria{}, err
	}
	pool, err := s.restaurants.CandidatePool(ctx, s.cfg.CandidatePoolSize)
	if err != nil {
		return nil, recommend.Criteria{}, err
	}
	if !containsRestaurant(pool, ref.ID) {
		pool = append(pool, *ref)
	}

	start := time.Now()
	matches, criteria, err := s.similar.FindSimilar(ref.ID.String(), models.Records(pool), cuisine, limit)
	if err != nil {
		if errors.Is(err, recommend.ErrNotFound) {
			return nil, recommend.Criteria{}, ErrRestaurantNotFound
		}
		return nil, recommend.Criteria{}, fmt.Errorf("failed to find similar restaurants: %w", err)
	}
	metrics.RecordRecommendation("similarity", "similar", len(pool), time.Since(start))
	return resolve(pool, matches), criteria, nil
}

// Invalidate drops the cached recommendations of userID.
func (s *RecommendationService) Invalidate(ctx context.Context, userID uuid.UUID) {
	s.cache.Invalidate(ctx, userID.String())
}

// resolve maps ranked records back to the stored restaurants, keeping rank
// order.
func resolve(pool []models.Restaurant, ranked []recommend.Restaurant) []models.Restaurant {
	byID := make(map[string]int, len(pool))
	for i := range pool {
		byID[pool[i].ID.String()] = i
	}
	out := make([]models.Restaurant, 0, len(ranked))
	for _, r := range ranked {
		if i, ok := byID[r.ID]; ok {
			out = append(out, pool[i])
		}
	}
	return out
}

func containsRestaurant(pool []models.Restaurant, id uuid.UUID) bool {
	for i := range pool {
		if pool[i].ID == id {
			return true
		}
	}
	return false
}
