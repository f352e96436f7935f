package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"propfolio/internal/domain"
	"propfolio/internal/service"
)

// MockPropertyService is a mock implementation of service.PropertyService.
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, input *service.CreatePropertyInput) (*domain.PropertyRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyRecord), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, id uuid.UUID, input *service.UpdatePropertyInput) (*domain.PropertyRecord, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyRecord), args.Error(1)
}

func (m *MockPropertyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyRecord), args.Error(1)
}

func (m *MockPropertyService) List(ctx context.Context, offset, limit int) ([]domain.PropertyRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PropertyRecord), args.Int(1), args.Error(2)
}

func (m *MockPropertyService) ListDocuments(ctx context.Context, id uuid.UUID) ([]domain.StoredDocumentResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredDocumentResult), args.Error(1)
}

func (m *MockPropertyService) ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockPropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
