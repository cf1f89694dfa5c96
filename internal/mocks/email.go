package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Rahnken/recipe-tracker/internal/models"
)

// MockEmailService is a mock implementation of the email service
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func (m *MockEmailService) SendShareNotification(to string, recipe *models.Recipe, sharedBy *models.User, permission models.SharePermission) error {
	return m.Called(to, recipe, sharedBy, permission).Error(0)
}

// MockObjectStore is a mock implementation of the export object store
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	return m.Called(ctx, key, contentType, body).Error(0)
}

func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}
