package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/middleware"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/types"
)

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, mw Middlewares) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", with(h.Register, mw.RateLimit)...)
		auth.POST("/login", with(h.Login, mw.RateLimit)...)
		auth.GET("/me", with(h.Me, mw.Auth)...)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().Str("user_id", user.ID.String()).Msg("user registered")
	c.JSON(http.StatusCreated, types.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AuthResponse{Token: token, User: user})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
