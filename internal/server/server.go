package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/config"
	"github.com/pageza/dinewise/backend/internal/api"
	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/middleware"
	"github.com/pageza/dinewise/backend/internal/router"
	"github.com/pageza/dinewise/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
}

// New wires every service and handler. redisClient and store may be nil;
// the rate limiter and recommendation cache then run without Redis and image
// uploads are disabled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store *config.S3Config) *Server {
	restaurants := service.NewRestaurantService(db)
	cache := service.NewRecommendationCache(redisClient, cfg.Recommend.CacheTTL)
	recs := service.NewRecommendationService(db, restaurants, cache, cfg.Recommend)

	var objects service.ObjectStore
	if store != nil {
		objects = store
	}

	services := api.Services{
		Auth:            service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL, service.NewEmailService(cfg.SMTP)),
		Users:           service.NewUserService(db, recs.Invalidate),
		Restaurants:     restaurants,
		Reviews:         service.NewReviewService(db),
		Recommendations: recs,
		Behavior:        service.NewBehaviorService(db),
		Admin:           service.NewAdminService(db),
		Images:          service.NewImageService(objects),
	}

	r := router.SetupRouter(router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Services: services,
	})

	return &Server{
		cfg:    cfg,
		router: r,
		http: &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: middleware.ErrorHandler(r),
		},
	}
}

// Handler returns the root handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until SIGINT or SIGTERM and then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.http.Addr).Msg("starting server")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.Stop(ctx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
