package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/database"
	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/models"
)

type seedUser struct {
	username  string
	email     string
	role      string
	cuisines  []string
	location  string
	favorites int
}

var testUsers = []seedUser{
	{username: "admin", email: "admin@example.com", role: models.RoleAdmin},
	{username: "priya", email: "priya@example.com", role: models.RoleUser, cuisines: []string{"North Indian", "Cafe"}, location: "Pune", favorites: 3},
	{username: "rahul", email: "rahul@example.com", role: models.RoleUser, cuisines: []string{"Chinese"}, location: "Delhi", favorites: 5},
	{username: "newcomer", email: "newcomer@example.com", role: models.RoleUser},
}

func main() {
	password := flag.String("password", "testpassword123", "Password given to every seeded user")
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

	created, err := seed(db, testUsers, *password)
	if err != nil {
		logging.Fatal().Err(err).Msg("seeding failed")
	}
	logging.Info().Int("created", created).Str("password", *password).Msg("test users ready")
}

// seed creates each missing user and favorites the top-rated restaurants in
// the user's preferred city. Existing users are left untouched.
func seed(db *gorm.DB, users []seedUser, password string) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	created := 0
	for _, su := range users {
		var existing models.User
		err := db.Where("email = ?", su.email).First(&existing).Error
		if err == nil {
			logging.Info().Str("email", su.email).Msg("user already exists, skipping")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to look up %s: %w", su.email, err)
		}

		prefs := models.DefaultPreferences()
		if su.cuisines != nil {
			prefs.Cuisines = su.cuisines
		}
		prefs.Location = su.location

		user := models.User{
			Username:     su.username,
			Email:        su.email,
			PasswordHash: string(hash),
			Role:         su.role,
			Preferences:  prefs,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return addFavorites(tx, &user, su.location, su.favorites)
		})
		if err != nil {
			return created, fmt.Errorf("failed to create %s: %w", su.email, err)
		}
		created++
		logging.Info().Str("email", su.email).Str("role", su.role).Int("favorites", su.favorites).Msg("created user")
	}
	return created, nil
}

func addFavorites(tx *gorm.DB, user *models.User, city string, n int) error {
	if n == 0 {
		return nil
	}
	var picks []models.Restaurant
	q := tx.Order("rating DESC").Limit(n)
	if city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}
	if err := q.Find(&picks).Error; err != nil {
		return err
	}
	for _, r := range picks {
		fav := models.RestaurantFavorite{UserID: user.ID, RestaurantID: r.ID}
		if err := tx.Create(&fav).Error; err != nil {
			return err
		}
	}
	return nil
}
