package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"propfolio/internal/domain"
	"propfolio/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendBatchSummary(ctx context.Context, toEmail string, summary domain.ConsolidationMetadata, errors []domain.ProcessingError) error {
	subject := fmt.Sprintf("Document batch processed: %d fields from %d documents", summary.TotalFields, len(summary.DocumentsProcessed))
	textBody := buildSummaryText(summary, errors)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSummaryText(summary domain.ConsolidationMetadata, errors []domain.ProcessingError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch completed at %s\n\n", summary.ProcessedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Documents processed (%d):\n", len(summary.DocumentsProcessed))
	for _, name := range summary.DocumentsProcessed {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	fmt.Fprintf(&b, "\nConsolidated fields: %d\n", summary.TotalFields)
	if len(errors) > 0 {
		fmt.Fprintf(&b, "\nFailures (%d):\n", len(errors))
		for _, e := range errors {
			fmt.Fprintf(&b, "  - %s: %s\n", e.Filename, e.Error)
		}
	}
	return b.String()
}
