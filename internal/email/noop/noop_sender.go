package noop

import (
	"context"
	"log"

	"propfolio/internal/domain"
	"propfolio/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs summaries to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendBatchSummary(_ context.Context, toEmail string, summary domain.ConsolidationMetadata, errors []domain.ProcessingError) error {
	log.Printf("[NOOP EMAIL] Batch summary for %s: %d documents, %d fields, %d failures",
		toEmail, len(summary.DocumentsProcessed), summary.TotalFields, len(errors))
	return nil
}
