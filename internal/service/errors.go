package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/dinewise/backend/internal/recommend"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is shared with the recommenders so both map to 400.
	ErrInvalidInput       = recommend.ErrInvalidInput
	ErrDuplicate          = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = fmt.Errorf("user %w", ErrDuplicate)
	ErrStorageDisabled    = errors.New("image storage is not configured")

	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrReviewNotFound     = fmt.Errorf("review %w", ErrNotFound)
	ErrFavoriteNotFound   = fmt.Errorf("favorite %w", ErrNotFound)
	ErrAlreadyFavorited   = fmt.Errorf("restaurant is already in favorites: %w", ErrDuplicate)
	ErrAlreadyReviewed    = fmt.Errorf("you have already reviewed this restaurant: %w", ErrDuplicate)
)

// IsNotFound reports whether err is a not-found error from this package or
// the recommenders.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, recommend.ErrNotFound)
}

// notFound converts gorm's not-found error into target and wraps anything
// else with op.
func notFound(err, target error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isUniqueViolation reports whether err came from a unique index on either
// PostgreSQL or SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
