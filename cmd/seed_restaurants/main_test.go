package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/testhelpers"
)

const sampleCSV = `Restaurant ID,Restaurant Name,Country Code,City,Address,Locality,Locality Verbose,Longitude,Latitude,Cuisines,Average Cost for two,Currency,Has Table booking,Has Online delivery,Is delivering now,Price range,Aggregate rating,Rating text,Votes
101,Vaishali,1,Pune,"FC Road, Deccan",Deccan Gymkhana,"Deccan Gymkhana, Pune",73.8411,18.5204,"South Indian, Cafe",400,Indian Rupees(Rs.),No,Yes,No,1,4.5,Excellent,2100
102,,1,Pune,Somewhere,Baner,"Baner, Pune",73.78,18.55,Italian,900,Indian Rupees(Rs.),No,No,No,2,3.9,Good,12
103,Nowhere Diner,1,Pune,Somewhere,Baner,"Baner, Pune",,,Italian,900,Indian Rupees(Rs.),No,No,No,2,3.9,Good,12
104,Plain Kitchen,1,Delhi,CP,Connaught Place,"Connaught Place, Delhi",77.2167,28.6315,,1500,,Yes,No,No,7,0,,0
`

func TestToRestaurant(t *testing.T) {
	header := newHeader(strings.Split(strings.SplitN(sampleCSV, "\n", 2)[0], ","))

	r, err := toRestaurant(row{header: header, fields: []string{
		"104", "Plain Kitchen", "1", "Delhi", "CP", "Connaught Place", "Connaught Place, Delhi",
		"77.2167", "28.6315", "", "1500", "", "Yes", "No", "No", "7", "0", "", "0",
	}})
	require.NoError(t, err)

	assert.Equal(t, "Plain Kitchen", r.Name)
	assert.Equal(t, []string{"International"}, []string(r.Cuisines))
	assert.Equal(t, 2, r.PriceLevel)
	assert.Equal(t, "USD", r.Zomato.Currency)
	assert.True(t, r.Zomato.HasTableBooking)
	assert.Equal(t, 1500, r.Zomato.AverageCostForTwo)
	assert.Equal(t, "Located in Connaught Place. International cuisine.", r.Description)
}

func TestToRestaurantRejects(t *testing.T) {
	header := newHeader([]string{colName, colLongitude, colLatitude})

	_, err := toRestaurant(row{header: header, fields: []string{"", "1", "2"}})
	assert.Error(t, err)

	_, err = toRestaurant(row{header: header, fields: []string{"X", "abc", "2"}})
	assert.Error(t, err)
}

func TestToUTF8(t *testing.T) {
	assert.Equal(t, "Café", toUTF8("Caf\xe9"))
	assert.Equal(t, "Café", toUTF8("Café"))
}

func TestImportCSV(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)

	stats, err := importCSV(db, strings.NewReader(sampleCSV), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.rows)
	assert.Equal(t, 2, stats.inserted)
	assert.Equal(t, 2, stats.skipped)

	var got models.Restaurant
	require.NoError(t, db.Where("name = ?", "Vaishali").First(&got).Error)
	assert.Equal(t, []string{"South Indian", "Cafe"}, []string(got.Cuisines))
	assert.Equal(t, "Pune", got.City)
	assert.Equal(t, 4.5, got.Rating)
	assert.Equal(t, 1, got.PriceLevel)
	assert.Equal(t, "Located in Deccan Gymkhana. South Indian cuisine. Rated: Excellent.", got.Description)
	assert.NotEmpty(t, got.Geohash)
}
