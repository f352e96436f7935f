package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"propfolio/internal/domain"
)

// MockDocumentResultRepo is a mock implementation of port.DocumentResultRepository.
type MockDocumentResultRepo struct {
	mock.Mock
}

func (m *MockDocumentResultRepo) Create(ctx context.Context, result *domain.StoredDocumentResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockDocumentResultRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.StoredDocumentResult, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredDocumentResult), args.Error(1)
}

func (m *MockDocumentResultRepo) LinkToProperty(ctx context.Context, propertyID uuid.UUID, documentIDs []string) error {
	args := m.Called(ctx, propertyID, documentIDs)
	return args.Error(0)
}
