package port

import (
	"context"

	"propfolio/internal/domain"
)

// EmailSender defines the contract for sending operator notifications.
type EmailSender interface {
	SendBatchSummary(ctx context.Context, toEmail string, summary domain.ConsolidationMetadata, errors []domain.ProcessingError) error
}
