package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/internal/recommend"
)

// GeohashPrecision gives cells of roughly 1.2km x 0.6km.
const GeohashPrecision = 6

// Address is the postal address of a restaurant.
type Address struct {
	Street   string `gorm:"size:255" json:"street"`
	City     string `gorm:"size:100;index" json:"city"`
	State    string `gorm:"size:100" json:"state"`
	ZipCode  string `gorm:"size:20" json:"zipCode"`
	Locality string `gorm:"size:100" json:"locality"`
}

// ZomatoData holds fields imported from the Zomato dataset.
type ZomatoData struct {
	RestaurantID      string           `gorm:"size:50;index" json:"restaurantId"`
	CountryCode       string           `gorm:"size:10" json:"countryCode"`
	Locality          string           `gorm:"size:255" json:"locality"`
	LocalityVerbose   string           `gorm:"size:255" json:"localityVerbose"`
	Cuisines          JSONBStringArray `gorm:"type:jsonb" json:"cuisines"`
	AverageCostForTwo int              `json:"averageCostForTwo"`
	Currency          string           `gorm:"size:50" json:"currency"`
	HasTableBooking   bool             `json:"hasTableBooking"`
	HasOnlineDelivery bool             `json:"hasOnlineDelivery"`
	IsDeliveringNow   bool             `json:"isDeliveringNow"`
	RatingText        string           `gorm:"size:50" json:"ratingText"`
	Votes             int              `json:"votes"`
}

type Restaurant struct {
	ID          uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Name        string           `gorm:"size:255;not null;index" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Cuisines    JSONBStringArray `gorm:"type:jsonb" json:"cuisines"`
	PriceLevel  int              `gorm:"not null;default:2;index" json:"priceLevel"`
	Rating      float64          `gorm:"not null;default:0;index" json:"rating"`
	City        string           `gorm:"size:100;index" json:"city"`
	Locality    string           `gorm:"size:100" json:"locality"`
	Address     Address          `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Geohash     string           `gorm:"size:12;index" json:"-"`
	ImageURL    string           `gorm:"size:512" json:"image"`
	Phone       string           `gorm:"size:50" json:"phone"`
	Website     string           `gorm:"size:255" json:"website"`
	Zomato      ZomatoData       `gorm:"embedded;embeddedPrefix:zomato_" json:"zomatoData"`
	Embedding   pgvector.Vector  `gorm:"type:vector(16)" json:"-"`
}

// BeforeCreate assigns an ID when the caller has not.
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps derived columns in sync with the record.
func (r *Restaurant) BeforeSave(tx *gorm.DB) error {
	r.PriceLevel = ClampPriceLevel(r.PriceLevel)
	r.Rating = ClampRating(r.Rating)
	if r.Latitude != 0 || r.Longitude != 0 {
		r.Geohash = geohash.EncodeWithPrecision(r.Latitude, r.Longitude, GeohashPrecision)
	}
	r.Embedding = Embed(r.searchText())
	return nil
}

func (r *Restaurant) searchText() string {
	rec := r.Record()
	parts := []string{r.Name, r.Description, rec.City, rec.Locality}
	parts = append(parts, rec.Cuisines...)
	return strings.Join(parts, " ")
}

// PrimaryCity returns the first non-empty of the top-level and address city.
func (r *Restaurant) PrimaryCity() string {
	return firstNonEmpty(r.City, r.Address.City)
}

// PrimaryLocality returns the first non-empty locality, preferring top-level,
// then address, then Zomato fields.
func (r *Restaurant) PrimaryLocality() string {
	return firstNonEmpty(r.Locality, r.Address.Locality, r.Zomato.Locality)
}

// Record normalizes the restaurant into the shape the recommenders use.
func (r *Restaurant) Record() recommend.Restaurant {
	cuisines := []string(r.Cuisines)
	if len(cuisines) == 0 {
		cuisines = []string(r.Zomato.Cuisines)
	}
	out := make([]string, 0, len(cuisines))
	for _, c := range cuisines {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}

	return recommend.Restaurant{
		ID:         r.ID.String(),
		Name:       r.Name,
		Cuisines:   out,
		PriceLevel: ClampPriceLevel(r.PriceLevel),
		Rating:     ClampRating(r.Rating),
		City:       r.PrimaryCity(),
		Locality:   r.PrimaryLocality(),
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}

// Records normalizes a slice of restaurants, keeping order.
func Records(list []Restaurant) []recommend.Restaurant {
	out := make([]recommend.Restaurant, 0, len(list))
	for i := range list {
		out = append(out, list[i].Record())
	}
	return out
}

// ClampPriceLevel maps unknown levels to 2 and bounds the rest to [1,4].
func ClampPriceLevel(level int) int {
	switch {
	case level == 0:
		return 2
	case level < 1:
		return 1
	case level > 4:
		return 4
	}
	return level
}

// ClampRating bounds a rating to [0,5].
func ClampRating(rating float64) float64 {
	switch {
	case rating < 0:
		return 0
	case rating > 5:
		return 5
	}
	return rating
}

// PriceLevelFromMoney converts an average cost for two into a price level.
func PriceLevelFromMoney(amount int) int {
	switch {
	case amount <= 500:
		return 1
	case amount <= 1000:
		return 2
	case amount <= 2000:
		return 3
	}
	return 4
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
