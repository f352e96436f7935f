package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"propfolio/internal/domain"
)

// MockPropertyRepo is a mock implementation of port.PropertyRepository.
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) Create(ctx context.Context, record *domain.PropertyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyRecord), args.Error(1)
}

func (m *MockPropertyRepo) List(ctx context.Context, offset, limit int) ([]domain.PropertyRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PropertyRecord), args.Int(1), args.Error(2)
}

func (m *MockPropertyRepo) Update(ctx context.Context, record *domain.PropertyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
