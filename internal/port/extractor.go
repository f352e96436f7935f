package port

import (
	"context"

	"propfolio/internal/domain"
)

// ExtractInput carries one file to the AI extraction pipeline.
type ExtractInput struct {
	FileBytes   []byte
	Filename    string
	ContentType string
}

// DocumentExtractor abstracts the external AI pipeline that turns a document
// into classified field/value/confidence payloads.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.DocumentResult, error)
}
