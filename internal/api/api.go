// Package api holds the gin handlers of the /api/v1 surface.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dinewise/backend/internal/logging"
	"github.com/pageza/dinewise/backend/internal/service"
	"github.com/pageza/dinewise/backend/internal/validation"
)

// Services bundles everything the handlers call.
type Services struct {
	Auth            service.IAuthService
	Users           service.IUserService
	Restaurants     service.IRestaurantService
	Reviews         service.IReviewService
	Recommendations service.IRecommendationService
	Behavior        service.IBehaviorService
	Admin           service.IAdminService
	Images          service.IImageService
}

// Middlewares are applied per route group by RegisterRoutes. Nil entries are
// skipped.
type Middlewares struct {
	Auth      gin.HandlerFunc
	Admin     gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// with prepends the non-nil middlewares to handler.
func with(handler gin.HandlerFunc, mw ...gin.HandlerFunc) []gin.HandlerFunc {
	return append(chain(mw...), handler)
}

// bindJSON decodes the body into dst and validates it. On failure it writes
// a 400 and returns false.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := validation.Validate(dst); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// respondError maps service errors to status codes. Anything unrecognised is
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "details": verr.Fields})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this resource"})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
