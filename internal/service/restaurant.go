package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/types"
)

const (
	DefaultPageSize    = 12
	MaxPageSize        = 50
	AdminSearchLimit   = 200
	DefaultNearbyKm    = 5.0
	MaxNearbyKm        = 50.0
	earthRadiusKm      = 6371.0
	moneyThreshold     = 100
	preferencePageSize = 10
)

// ListFilter holds the catalogue filters. Empty fields do not filter.
type ListFilter struct {
	Cuisine   string
	City      string
	MinRating *float64
	// MaxPrice is a price level (1-4) or, above 100, an average cost for two.
	MaxPrice *int
	Search   string
	Page     int
	Limit    int
}

// normalize applies paging defaults and bounds.
func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if strings.EqualFold(f.Cuisine, "all") {
		f.Cuisine = ""
	}
	if strings.EqualFold(f.City, "all") {
		f.City = ""
	}
}

// RestaurantPage is one page of restaurants.
type RestaurantPage struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	Pages       int                 `json:"pages"`
	Limit       int                 `json:"-"`
}

// NearbyRestaurant is a restaurant with its distance from the query point.
type NearbyRestaurant struct {
	models.Restaurant
	DistanceKm float64 `json:"distanceKm"`
}

// PreferencePage is a page of preference-based recommendations.
type PreferencePage struct {
	Recommendations []models.Restaurant `json:"recommendations"`
	Total           int64               `json:"total"`
	Page            int                 `json:"page"`
	Pages           int                 `json:"pages"`
	PreferencesUsed models.Preferences  `json:"preferencesUsed"`
}

// RestaurantService handles restaurant operations
type RestaurantService struct {
	db *gorm.DB
}

// NewRestaurantService creates a new RestaurantService instance
func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{db: db}
}

func (s *RestaurantService) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

// jsonText renders a JSON column as lower-case text for LIKE matching.
func (s *RestaurantService) jsonText(column string) string {
	if s.isPostgres() {
		return "LOWER(" + column + "::text)"
	}
	return "LOWER(" + column + ")"
}

func like(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// applyFilter adds the WHERE conditions of f to q.
func (s *RestaurantService) applyFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	if f.Cuisine != "" {
		q = q.Where(s.jsonText("cuisines")+" LIKE ?", like(f.Cuisine))
	}
	if f.City != "" {
		c := like(f.City)
		q = q.Where("LOWER(address_city) LIKE ? OR LOWER(city) LIKE ? OR LOWER(zomato_locality) LIKE ?", c, c, c)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	if f.MaxPrice != nil {
		level := *f.MaxPrice
		if level > moneyThreshold {
			level = models.PriceLevelFromMoney(level)
		}
		if level == 2 {
			q = q.Where("price_level IN ?", []int{1, 2})
		} else {
			q = q.Where("price_level <= ?", level)
		}
	}
	if f.Search != "" {
		t := like(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR "+s.jsonText("cuisines")+" LIKE ? OR "+
			"LOWER(city) LIKE ? OR LOWER(locality) LIKE ? OR LOWER(address_city) LIKE ? OR LOWER(zomato_locality) LIKE ?",
			t, t, t, t, t, t, t)
	}
	return q
}

func pages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

// List returns a page of restaurants sorted by rating, newest first on ties.
func (s *RestaurantService) List(ctx context.Context, f ListFilter) (*RestaurantPage, error) {
	return s.page(ctx, f, false)
}

// Search is List with a required term. On PostgreSQL matches are ordered by
// embedding distance to the term before rating.
func (s *RestaurantService) Search(ctx context.Context, f ListFilter) (*RestaurantPage, error) {
	if strings.TrimSpace(f.Search) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	return s.page(ctx, f, s.isPostgres())
}

func (s *RestaurantService) page(ctx context.Context, f ListFilter, semantic bool) (*RestaurantPage, error) {
	f.normalize()

	base := s.applyFilter(s.db.WithContext(ctx).Model(&models.Restaurant{}), f).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count restaurants: %w", err)
	}

	q := base
	if semantic {
		q = q.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "embedding <-> ?, rating DESC, created_at DESC",
			Vars:               []interface{}{models.Embed(f.Search)},
			WithoutParentheses: true,
		}})
	} else {
		q = q.Order("rating DESC").Order("created_at DESC")
	}

	var list []models.Restaurant
	if err := q.Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	return &RestaurantPage{
		Restaurants: list,
		Total:       total,
		Page:        f.Page,
		Pages:       pages(total, f.Limit),
		Limit:       f.Limit,
	}, nil
}

// Cities returns the distinct non-empty address cities, trimmed and sorted.
func (s *RestaurantService) Cities(ctx context.Context) ([]string, error) {
	var raw []string
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Distinct("address_city").
		Pluck("address_city", &raw).Error; err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	cities := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cities = append(cities, c)
	}
	sort.Strings(cities)
	return cities, nil
}

// geohashPrecision picks the longest geohash whose cells are at least
// radiusKm on their short side, so the 3x3 block around the centre covers
// the whole search circle.
func geohashPrecision(radiusKm float64) uint {
	switch {
	case radiusKm <= 0.6:
		return 6
	case radiusKm <= 4.8:
		return 5
	case radiusKm <= 19.5:
		return 4
	case radiusKm <= 156:
		return 3
	default:
		return 2
	}
}

// Nearby returns restaurants within radiusKm of (lat, lng), closest first.
func (s *RestaurantService) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyRestaurant, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyKm
	}
	radiusKm = math.Min(radiusKm, MaxNearbyKm)
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	center := geohash.EncodeWithPrecision(lat, lng, geohashPrecision(radiusKm))
	cells := append([]string{center}, geohash.Neighbors(center)...)

	q := s.db.WithContext(ctx).Model(&models.Restaurant{})
	conds := make([]string, 0, len(cells))
	args := make([]interface{}, 0, len(cells))
	for _, cell := range cells {
		conds = append(conds, "geohash LIKE ?")
		args = append(args, cell+"%")
	}
	q = q.Where(strings.Join(conds, " OR "), args...)

	var candidates []models.Restaurant
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to query nearby restaurants: %w", err)
	}

	out := make([]NearbyRestaurant, 0, len(candidates))
	for _, r := range candidates {
		d := haversine(lat, lng, r.Latitude, r.Longitude)
		if d <= radiusKm {
			out = append(out, NearbyRestaurant{Restaurant: r, DistanceKm: math.Round(d*100) / 100})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// haversine returns the great-circle distance in kilometres.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Get retrieves a restaurant by ID
func (s *RestaurantService) Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrRestaurantNotFound, "load restaurant")
	}
	return &r, nil
}

func applyRequest(r *models.Restaurant, req *types.RestaurantRequest) {
	r.Name = strings.TrimSpace(req.Name)
	r.Description = req.Description
	r.Cuisines = models.JSONBStringArray(req.Cuisines)
	r.PriceLevel = req.PriceLevel
	r.Rating = req.Rating
	r.City = strings.TrimSpace(req.City)
	r.Locality = strings.TrimSpace(req.Locality)
	r.Address = req.Address
	r.Latitude = req.Latitude
	r.Longitude = req.Longitude
	r.ImageURL = req.Image
	r.Phone = req.Phone
	r.Website = req.Website
}

// Create creates a new restaurant
func (s *RestaurantService) Create(ctx context.Context, req *types.RestaurantRequest) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	applyRequest(r, req)
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}
	return r, nil
}

// Update replaces the editable fields of a restaurant. Vendor data is kept.
func (s *RestaurantService) Update(ctx context.Context, id uuid.UUID, req *types.RestaurantRequest) (*models.Restaurant, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyRequest(r, req)
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	return r, nil
}

// Delete soft-deletes a restaurant and removes it from every favorites list.
func (s *RestaurantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Restaurant{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete restaurant: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRestaurantNotFound
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.RestaurantFavorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		return nil
	})
}

// AdminList pages through all restaurants, newest first, with an optional
// name/city search.
func (s *RestaurantService) AdminList(ctx context.Context, page, limit int, search string) (*RestaurantPage, error) {
	f := ListFilter{Page: page, Limit: limit}
	f.normalize()

	base := s.db.WithContext(ctx).Model(&models.Restaurant{})
	if search = strings.TrimSpace(search); search != "" {
		t := like(search)
		base = base.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(address_city) LIKE ?", t, t, t)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count restaurants: %w", err)
	}

	var list []models.Restaurant
	if err := base.Order("created_at DESC").Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	return &RestaurantPage{Restaurants: list, Total: total, Page: f.Page, Pages: pages(total, f.Limit), Limit: f.Limit}, nil
}

// AdminSearch matches name, cuisine, city or locality, newest first, capped
// at AdminSearchLimit.
func (s *RestaurantService) AdminSearch(ctx context.Context, query string) ([]models.Restaurant, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	t := like(query)
	var list []models.Restaurant
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR "+s.jsonText("cuisines")+" LIKE ? OR LOWER(city) LIKE ? OR LOWER(address_city) LIKE ? OR LOWER(locality) LIKE ? OR LOWER(zomato_locality) LIKE ?",
			t, t, t, t, t, t).
		Order("created_at DESC").
		Limit(AdminSearchLimit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}
	return list, nil
}

// SetImage stores a new image URL on the restaurant.
func (s *RestaurantService) SetImage(ctx context.Context, id uuid.UUID, url string) (*models.Restaurant, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.ImageURL = url
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return nil, fmt.Errorf("failed to save restaurant image: %w", err)
	}
	return r, nil
}

// PreferenceRecommendations lists restaurants matching the user's stored
// preferences, best rated first.
func (s *RestaurantService) PreferenceRecommendations(ctx context.Context, userID uuid.UUID, page, limit int) (*PreferencePage, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound, "load user")
	}
	prefs := user.Preferences

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = preferencePageSize
	}
	limit = min(limit, MaxPageSize)

	q := s.db.WithContext(ctx).Model(&models.Restaurant{})
	if len(prefs.Cuisines) > 0 {
		conds := make([]string, 0, len(prefs.Cuisines))
		args := make([]interface{}, 0, len(prefs.Cuisines))
		for _, c := range prefs.Cuisines {
			if strings.TrimSpace(c) == "" {
				continue
			}
			conds = append(conds, s.jsonText("cuisines")+" LIKE ?")
			args = append(args, like(c))
		}
		if len(conds) > 0 {
			q = q.Where(strings.Join(conds, " OR "), args...)
		}
	}
	if prefs.PriceRange.Max > 0 {
		minLevel := 1
		if prefs.PriceRange.Min > 0 {
			minLevel = models.PriceLevelFromMoney(prefs.PriceRange.Min)
		}
		maxLevel := models.PriceLevelFromMoney(prefs.PriceRange.Max)
		q = q.Where("price_level BETWEEN ? AND ?", minLevel, maxLevel)
	}
	if loc := strings.TrimSpace(prefs.Location); loc != "" {
		t := like(loc)
		q = q.Where("LOWER(address_city) LIKE ? OR LOWER(city) LIKE ? OR LOWER(locality) LIKE ? OR LOWER(zomato_locality) LIKE ?", t, t, t, t)
	}
	if prefs.HasTableBooking {
		q = q.Where("zomato_has_table_booking = ?", true)
	}
	if prefs.HasOnlineDelivery {
		q = q.Where("zomato_has_online_delivery = ?", true)
	}
	if prefs.IsDeliveringNow {
		q = q.Where("zomato_is_delivering_now = ?", true)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recommendations: %w", err)
	}

	var list []models.Restaurant
	if err := q.Order("rating DESC").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}

	return &PreferencePage{
		Recommendations: list,
		Total:           total,
		Page:            page,
		Pages:           pages(total, limit),
		PreferencesUsed: prefs,
	}, nil
}

// CandidatePool returns up to size restaurants in creation order, the pool
// the recommenders rank over.
func (s *RestaurantService) CandidatePool(ctx context.Context, size int) ([]models.Restaurant, error) {
	var list []models.Restaurant
	if err := s.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Limit(size).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}
	return list, nil
}
