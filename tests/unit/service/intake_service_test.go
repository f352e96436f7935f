package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propfolio/internal/config"
	"propfolio/internal/consolidate"
	"propfolio/internal/domain"
	"propfolio/internal/port"
	"propfolio/internal/service"
	"propfolio/mocks"
)

func testS3Config() *config.S3Config {
	return &config.S3Config{Region: "us-east-1", Bucket: "test-bucket", MaxFileSizeMB: 25, PresignExpiry: 3600}
}

func docResult(id, filename string, fields map[string]domain.FieldPayload) *domain.DocumentResult {
	return &domain.DocumentResult{
		DocumentID:               id,
		Filename:                 filename,
		DocumentType:             "deed",
		ClassificationConfidence: 0.9,
		Fields:                   fields,
	}
}

func newIntakeService(ext port.DocumentExtractor, storage port.ObjectStorage, docRepo port.DocumentResultRepository, email port.EmailSender, notifyTo string) service.IntakeService {
	return service.NewIntakeService(
		ext,
		storage,
		docRepo,
		email,
		consolidate.New(consolidate.Options{}),
		testS3Config(),
		notifyTo,
	)
}

func TestIntakeService_ProcessBatch_Success(t *testing.T) {
	ext := new(mocks.MockDocumentExtractor)
	storage := new(mocks.MockObjectStorage)
	docRepo := new(mocks.MockDocumentResultRepo)

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{Location: "s3://x"}, nil)
	docRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ext.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Filename == "deed.pdf"
	})).Return(docResult("doc-1", "deed.pdf", map[string]domain.FieldPayload{
		"purchase_price": {"value": 425000.0, "confidence": 0.92},
	}), nil)

	svc := newIntakeService(ext, storage, docRepo, nil, "")
	output, err := svc.ProcessBatch(context.Background(), &service.IntakeBatchInput{
		SubmittedBy: "operator",
		Files:       []service.BatchFile{{Filename: "deed.pdf", ContentType: "application/pdf", Data: []byte("pdf")}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"deed.pdf"}, output.Metadata.DocumentsProcessed)
	assert.Contains(t, output.Fields, "purchase_price")
	assert.Empty(t, output.Errors)
	storage.AssertCalled(t, "Upload", mock.Anything, mock.Anything)
	docRepo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIntakeService_ProcessBatch_EmptyBatch(t *testing.T) {
	svc := newIntakeService(new(mocks.MockDocumentExtractor), new(mocks.MockObjectStorage), nil, nil, "")
	_, err := svc.ProcessBatch(context.Background(), &service.IntakeBatchInput{SubmittedBy: "operator"})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

// Three files, the second fails: the batch still consolidates the other two
// and records exactly one failure.
func TestIntakeService_ProcessBatch_PartialFailure(t *testing.T) {
	ext := new(mocks.MockDocumentExtractor)
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)

	match := func(name string) any {
		return mock.MatchedBy(func(in port.ExtractInput) bool { return in.Filename == name })
	}
	ext.On("Extract", mock.Anything, match("a.pdf")).Return(docResult("doc-a", "a.pdf", map[string]domain.FieldPayload{
		"f1": {"value": "v1", "confidence": 0.9},
	}), nil)
	ext.On("Extract", mock.Anything, match("b.pdf")).Return(nil, errors.New("extraction failed"))
	ext.On("Extract", mock.Anything, match("c.pdf")).Return(docResult("doc-c", "c.pdf", map[string]domain.FieldPayload{
		"f2": {"value": "v2", "confidence": 0.8},
	}), nil)

	svc := newIntakeService(ext, storage, nil, nil, "")
	output, err := svc.ProcessBatch(context.Background(), &service.IntakeBatchInput{
		SubmittedBy: "operator",
		Files: []service.BatchFile{
			{Filename: "a.pdf", Data: []byte("a")},
			{Filename: "b.pdf", Data: []byte("b")},
			{Filename: "c.pdf", Data: []byte("c")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "c.pdf"}, output.Metadata.DocumentsProcessed)
	require.Len(t, output.Errors, 1)
	assert.Equal(t, "b.pdf", output.Errors[0].Filename)
	assert.Contains(t, output.Errors[0].Error, "extraction failed")
	assert.Contains(t, output.Fields, "f1")
	assert.Contains(t, output.Fields, "f2")
}

func TestIntakeService_ProcessBatch_AllFail(t *testing.T) {
	ext := new(mocks.MockDocumentExtractor)
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("pipeline down"))

	svc := newIntakeService(ext, storage, nil, nil, "")
	_, err := svc.ProcessBatch(context.Background(), &service.IntakeBatchInput{
		SubmittedBy: "operator",
		Files:       []service.BatchFile{{Filename: "a.pdf", Data: []byte("a")}},
	})
	assert.ErrorIs(t, err, domain.ErrNoDocumentsProcessed)
}

// Archive and persistence failures never fail the batch.
func TestIntakeService_ProcessBatch_BestEffortSideEffects(t *testing.T) {
	ext := new(mocks.MockDocumentExtractor)
	storage := new(mocks.MockObjectStorage)
	docRepo := new(mocks.MockDocumentResultRepo)

	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 unavailable"))
	docRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db unavailable"))
	ext.On("Extract", mock.Anything, mock.Anything).Return(docResult("doc-1", "a.pdf", map[string]domain.FieldPayload{
		"f": {"value": "v", "confidence": 0.9},
	}), nil)

	svc := newIntakeService(ext, storage, docRepo, nil, "")
	output, err := svc.ProcessBatch(context.Background(), &service.IntakeBatchInput{
		SubmittedBy: "operator",
		Files:       []service.BatchFile{{Filename: "a.pdf", Data: []byte("a")}},
	})
	require.NoError(t, err)
	assert.Contains(t, output.Fields, "f")
}

func TestIntakeService_ProcessBatch_DerivedFieldApplied(t *testing.T) {
	ext := new(mocks.MockDocumentExtractor)
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(docResult("doc-1", "deed.pdf", map[string]domain.FieldPayload{
		"closing_date": {"value": "2024-03-15", "confidence": 0.9},
	}), nil)

	svc := newIntakeService(ext, storage, nil, nil, "")
	output, err := svc.ProcessBatch(context.Background(), &service.IntakeBatchInput{
		SubmittedBy: "operator",
		Files:       []service.BatchFile{{Filename: "deed.pdf", Data: []byte("a")}},
	})
	require.NoError(t, err)

	field, ok := output.Fields["first_payment_date"]
	require.True(t, ok)
	assert.Equal(t, "2024-04-15", field.Value)
	assert.Equal(t, "auto-calculated from closing_date", field.Source)
}

func TestIntakeService_ProcessBatch_NotifiesOperator(t *testing.T) {
	ext := new(mocks.MockDocumentExtractor)
	storage := new(mocks.MockObjectStorage)
	email := new(mocks.MockEmailSender)

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Return(docResult("doc-1", "a.pdf", map[string]domain.FieldPayload{
		"f": {"value": "v", "confidence": 0.9},
	}), nil)
	email.On("SendBatchSummary", mock.Anything, "ops@example.com", mock.Anything, mock.Anything).Return(nil)

	svc := newIntakeService(ext, storage, nil, email, "ops@example.com")
	_, err := svc.ProcessBatch(context.Background(), &service.IntakeBatchInput{
		SubmittedBy: "operator",
		Files:       []service.BatchFile{{Filename: "a.pdf", Data: []byte("a")}},
	})
	require.NoError(t, err)
	email.AssertCalled(t, "SendBatchSummary", mock.Anything, "ops@example.com", mock.Anything, mock.Anything)
}

func TestIntakeService_ProcessBatch_CancellationStopsSubmitting(t *testing.T) {
	ext := new(mocks.MockDocumentExtractor)
	storage := new(mocks.MockObjectStorage)
	ctx, cancel := context.WithCancel(context.Background())

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	ext.On("Extract", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
	}).Return(docResult("doc-1", "a.pdf", map[string]domain.FieldPayload{
		"f": {"value": "v", "confidence": 0.9},
	}), nil)

	svc := newIntakeService(ext, storage, nil, nil, "")
	output, err := svc.ProcessBatch(ctx, &service.IntakeBatchInput{
		SubmittedBy: "operator",
		Files: []service.BatchFile{
			{Filename: "a.pdf", Data: []byte("a")},
			{Filename: "b.pdf", Data: []byte("b")},
		},
	})
	require.NoError(t, err)

	// The first result still consolidates; the second file was never sent.
	assert.Equal(t, []string{"a.pdf"}, output.Metadata.DocumentsProcessed)
	ext.AssertNumberOfCalls(t, "Extract", 1)
}
