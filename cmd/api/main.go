package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/database"
	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/server"
)

func main() {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Caller:    cfg.Log.Caller,
		Timestamp: true,
	})
	gin.SetMode(config.GetEnvironment().GinMode())

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	var redisClient *redis.Client
	if rc, err := database.NewRedisClient(cfg.Redis); err != nil {
		logging.Warn().Err(err).Msg("redis unavailable, caching and shared rate limits disabled")
	} else {
		redisClient = rc
		defer rc.Close()
	}

	var store *config.S3Config
	if cfg.S3.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err = config.NewS3Config(ctx, cfg.S3)
		if err != nil {
			logging.Warn().Err(err).Msg("image storage unavailable, uploads disabled")
		} else if cfg.S3.PublicRead {
			if err := store.SetupBucketPolicy(ctx); err != nil {
				logging.Warn().Err(err).Str("bucket", cfg.S3.Bucket).Msg("failed to apply public read policy")
			}
		}
		cancel()
	}

	srv := server.New(cfg, db, redisClient, store)
	if err := srv.Start(); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}
	logging.Info().Msg("server stopped")
}
