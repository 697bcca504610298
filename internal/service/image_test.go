package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dinewise/backend/internal/mocks"
	"github.com/pageza/dinewise/backend/internal/service"
)

func TestUploadRestaurantImage(t *testing.T) {
	id := uuid.New()
	store := new(mocks.MockObjectStore)
	store.On("PutObject", mock.Anything,
		mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "restaurants/"+id.String()+"/") && strings.HasSuffix(key, ".jpeg")
		}),
		"image/jpeg", "jpeg-bytes",
	).Return("https://bucket.example.com/img.jpeg", nil).Once()
	svc := service.NewImageService(store)

	url, err := svc.UploadRestaurantImage(context.Background(), id, "front.JPEG", "image/jpeg; charset=binary", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/img.jpeg", url)
	store.AssertExpectations(t)
}

func TestUploadRestaurantImageRejects(t *testing.T) {
	_, err := service.NewImageService(nil).UploadRestaurantImage(context.Background(), uuid.New(), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrStorageDisabled)

	store := new(mocks.MockObjectStore)
	_, err = service.NewImageService(store).UploadRestaurantImage(context.Background(), uuid.New(), "a.gif", "image/gif", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	store.AssertNotCalled(t, "PutObject")

	store.On("PutObject", mock.Anything, mock.Anything, "image/png", "x").Return("", assert.AnError)
	_, err = service.NewImageService(store).UploadRestaurantImage(context.Background(), uuid.New(), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, assert.AnError)
}
