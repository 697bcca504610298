package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/pageza/dinewise/backend/internal/models"
)

// Zomato CSV columns read by the importer.
const (
	colRestaurantID    = "Restaurant ID"
	colName            = "Restaurant Name"
	colCountryCode     = "Country Code"
	colCity            = "City"
	colAddress         = "Address"
	colLocality        = "Locality"
	colLocalityVerbose = "Locality Verbose"
	colLongitude       = "Longitude"
	colLatitude        = "Latitude"
	colCuisines        = "Cuisines"
	colAverageCost     = "Average Cost for two"
	colCurrency        = "Currency"
	colTableBooking    = "Has Table booking"
	colOnlineDelivery  = "Has Online delivery"
	colDeliveringNow   = "Is delivering now"
	colPriceRange      = "Price range"
	colRating          = "Aggregate rating"
	colRatingText      = "Rating text"
	colVotes           = "Votes"
)

const defaultCuisine = "International"

// row gives access to one CSV record by column name.
type row struct {
	header map[string]int
	fields []string
}

func newHeader(cols []string) map[string]int {
	h := make(map[string]int, len(cols))
	for i, c := range cols {
		h[strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))] = i
	}
	return h
}

func (r row) get(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(toUTF8(r.fields[i]))
}

// toUTF8 repairs Latin-1 fields that the dataset mixes into UTF-8 rows.
func toUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

func (r row) yes(col string) bool {
	return strings.EqualFold(r.get(col), "yes")
}

func (r row) intField(col string) int {
	n, err := strconv.Atoi(r.get(col))
	if err != nil {
		return 0
	}
	return n
}

func (r row) floatField(col string) (float64, bool) {
	f, err := strconv.ParseFloat(r.get(col), 64)
	return f, err == nil
}

// toRestaurant converts a CSV record. Records without a name or coordinates
// are rejected.
func toRestaurant(r row) (*models.Restaurant, error) {
	name := r.get(colName)
	if name == "" {
		return nil, fmt.Errorf("missing restaurant name")
	}
	lng, okLng := r.floatField(colLongitude)
	lat, okLat := r.floatField(colLatitude)
	if !okLng || !okLat {
		return nil, fmt.Errorf("invalid coordinates for %q", name)
	}

	cuisines := splitCuisines(r.get(colCuisines))
	city := r.get(colCity)
	locality := r.get(colLocality)
	if locality == "" {
		locality = city
	}

	ratingText := r.get(colRatingText)
	description := fmt.Sprintf("Located in %s. %s cuisine.", locality, cuisines[0])
	if ratingText != "" {
		description += " Rated: " + ratingText + "."
	}

	priceLevel := r.intField(colPriceRange)
	if priceLevel < 1 || priceLevel > 4 {
		priceLevel = 2
	}
	rating, _ := r.floatField(colRating)
	currency := r.get(colCurrency)
	if currency == "" {
		currency = "USD"
	}

	return &models.Restaurant{
		Name:        name,
		Description: description,
		Cuisines:    models.JSONBStringArray(cuisines),
		PriceLevel:  priceLevel,
		Rating:      rating,
		City:        city,
		Locality:    r.get(colLocality),
		Address: models.Address{
			Street: r.get(colAddress),
			City:   city,
		},
		Latitude:  lat,
		Longitude: lng,
		Zomato: models.ZomatoData{
			RestaurantID:      r.get(colRestaurantID),
			CountryCode:       r.get(colCountryCode),
			Locality:          r.get(colLocality),
			LocalityVerbose:   r.get(colLocalityVerbose),
			Cuisines:          models.JSONBStringArray(cuisines),
			AverageCostForTwo: r.intField(colAverageCost),
			Currency:          currency,
			HasTableBooking:   r.yes(colTableBooking),
			HasOnlineDelivery: r.yes(colOnlineDelivery),
			IsDeliveringNow:   r.yes(colDeliveringNow),
			RatingText:        ratingText,
			Votes:             r.intField(colVotes),
		},
	}, nil
}

func splitCuisines(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return []string{defaultCuisine}
	}
	return out
}
