package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockObjectStore is a mock implementation of service.ObjectStore. The body
// is read fully and passed to Called as a string.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	args := m.Called(ctx, key, contentType, string(data))
	return args.String(0), args.Error(1)
}
