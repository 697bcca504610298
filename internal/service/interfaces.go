package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pageza/dinewise/backend/internal/models"
	"github.com/pageza/dinewise/backend/internal/recommend"
	"github.com/pageza/dinewise/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IUserService defines profile and favorites operations
type IUserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, error)
	AddFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error
}

// IRestaurantService defines restaurant catalogue operations
type IRestaurantService interface {
	List(ctx context.Context, filter ListFilter) (*RestaurantPage, error)
	Search(ctx context.Context, filter ListFilter) (*RestaurantPage, error)
	Cities(ctx context.Context) ([]string, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyRestaurant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Create(ctx context.Context, req *types.RestaurantRequest) (*models.Restaurant, error)
	Update(ctx context.Context, id uuid.UUID, req *types.RestaurantRequest) (*models.Restaurant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdminList(ctx context.Context, page, limit int, search string) (*RestaurantPage, error)
	AdminSearch(ctx context.Context, query string) ([]models.Restaurant, error)
	SetImage(ctx context.Context, id uuid.UUID, url string) (*models.Restaurant, error)
	PreferenceRecommendations(ctx context.Context, userID uuid.UUID, page, limit int) (*PreferencePage, error)
}

// IReviewService defines review operations
type IReviewService interface {
	ListForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]ReviewWithAuthor, error)
	Create(ctx context.Context, userID, restaurantID uuid.UUID, req *types.ReviewRequest) (*models.Review, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, req *types.ReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
}

// IRecommendationService defines the recommendation endpoints
type IRecommendationService interface {
	ForUser(ctx context.Context, userID uuid.UUID, q *types.RecommendationQuery) (*UserRecommendations, error)
	Similar(ctx context.Context, restaurantID uuid.UUID, cuisine string, limit int) ([]models.Restaurant, recommend.Criteria, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// IBehaviorService defines behavior tracking operations
type IBehaviorService interface {
	Track(ctx context.Context, userID uuid.UUID, req *types.TrackBehaviorRequest) (*models.UserBehavior, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.UserBehavior, error)
}

// IAdminService defines admin dashboard operations
type IAdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

// IImageService defines restaurant image storage
type IImageService interface {
	UploadRestaurantImage(ctx context.Context, restaurantID uuid.UUID, filename, contentType string, body io.Reader) (string, error)
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendWelcomeEmail(user *models.User) error
}
