package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propfolio/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendBatchSummary(ctx context.Context, toEmail string, summary domain.ConsolidationMetadata, errors []domain.ProcessingError) error {
	args := m.Called(ctx, toEmail, summary, errors)
	return args.Error(0)
}
