package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore is the part of config.S3Config the image service needs.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService stores restaurant images in S3.
type ImageService struct {
	store ObjectStore
}

// NewImageService creates an ImageService. A nil store disables uploads.
func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// UploadRestaurantImage stores the image under restaurants/<id>/ and returns
// its URL.
func (s *ImageService) UploadRestaurantImage(ctx context.Context, restaurantID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidInput, contentType)
	}
	if e := strings.ToLower(path.Ext(filename)); e == ".jpeg" || e == ext {
		ext = e
	}

	key := fmt.Sprintf("restaurants/%s/%s%s", restaurantID, uuid.NewString(), ext)
	url, err := s.store.PutObject(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}
