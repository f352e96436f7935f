package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propfolio/internal/domain"
	"propfolio/internal/service"
)

// MockIntakeService is a mock implementation of service.IntakeService.
type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) ProcessBatch(ctx context.Context, input *service.IntakeBatchInput) (*domain.ConsolidatedOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsolidatedOutput), args.Error(1)
}
