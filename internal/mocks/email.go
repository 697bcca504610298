package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/pageza/dinewise/backend/internal/models"
)

// MockEmailService is a mock implementation of service.IEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func (m *MockEmailService) SendWelcomeEmail(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}
