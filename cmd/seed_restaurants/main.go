package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/database"
	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/models"
)

func main() {
	path := flag.String("file", "data/restaurants.csv", "Zomato CSV to import")
	batchSize := flag.Int("batch", 500, "Rows inserted per batch")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	f, err := os.Open(*path)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *path).Msg("failed to open CSV")
	}
	defer f.Close()

	stats, err := importCSV(db, f, *batchSize)
	if err != nil {
		logging.Fatal().Err(err).Msg("import failed")
	}
	logging.Info().
		Int("rows", stats.rows).
		Int("inserted", stats.inserted).
		Int("skipped", stats.skipped).
		Msg("seeding complete")
}

type importStats struct {
	rows, inserted, skipped int
}

// importCSV streams the CSV into the restaurants table in batches.
func importCSV(db *gorm.DB, src io.Reader, batchSize int) (importStats, error) {
	var stats importStats
	if batchSize <= 0 {
		batchSize = 500
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	cols, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("failed to read CSV header: %w", err)
	}
	header := newHeader(cols)

	batch := make([]*models.Restaurant, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := db.CreateInBatches(batch, len(batch)).Error; err != nil {
			return fmt.Errorf("failed to insert batch: %w", err)
		}
		stats.inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.rows++
		if err != nil {
			stats.skipped++
			logging.Debug().Err(err).Int("row", stats.rows).Msg("unreadable row")
			continue
		}

		r, err := toRestaurant(row{header: header, fields: fields})
		if err != nil {
			stats.skipped++
			logging.Debug().Err(err).Int("row", stats.rows).Msg("skipping row")
			continue
		}
		batch = append(batch, r)

		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
			logging.Info().Int("rows", stats.rows).Int("inserted", stats.inserted).Msg("progress")
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}
