package types

import "github.com/pageza/dinewise/backend/internal/models"

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileRequest is the body of PUT /users/profile. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Username    *string             `json:"username" validate:"omitempty,min=3,max=50,alphanum"`
	Email       *string             `json:"email" validate:"omitempty,email,max=100"`
	Preferences *models.Preferences `json:"preferences"`
}

// ReviewRequest is the body for creating or updating a review.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// RestaurantRequest is the admin body for creating or replacing a restaurant.
type RestaurantRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Description string         `json:"description"`
	Cuisines    []string       `json:"cuisines" validate:"dive,max=100"`
	PriceLevel  int            `json:"priceLevel" validate:"omitempty,min=1,max=4"`
	Rating      float64        `json:"rating" validate:"gte=0,lte=5"`
	City        string         `json:"city" validate:"max=100"`
	Locality    string         `json:"locality" validate:"max=100"`
	Address     models.Address `json:"address"`
	Latitude    float64        `json:"latitude" validate:"latitude"`
	Longitude   float64        `json:"longitude" validate:"longitude"`
	Image       string         `json:"image" validate:"omitempty,url"`
	Phone       string         `json:"phone" validate:"max=50"`
	Website     string         `json:"website" validate:"omitempty,url"`
}

// TrackBehaviorRequest is the body of POST /ml/track-behavior.
type TrackBehaviorRequest struct {
	RestaurantID string                 `json:"restaurantId" validate:"omitempty,uuid"`
	ActionType   string                 `json:"actionType" validate:"required,oneof=view click favorite review search share"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// RecommendationQuery holds the query parameters of the ML recommendation
// endpoint after parsing.
type RecommendationQuery struct {
	CurrentRestaurantID string   `json:"currentRestaurantId" validate:"omitempty,uuid"`
	Latitude            *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude           *float64 `json:"longitude" validate:"omitempty,longitude"`
	Cuisine             string   `json:"cuisine" validate:"max=100"`
	Limit               int      `json:"limit" validate:"min=0,max=50"`
	Mode                string   `json:"mode" validate:"omitempty,oneof=hybrid content"`
}
