package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"propfolio/internal/config"
	"propfolio/internal/consolidate"
	"propfolio/internal/domain"
	"propfolio/internal/port"
)

// BatchFile is one file submitted to an intake batch.
type BatchFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IntakeBatchInput is the DTO for processing a batch of property documents.
type IntakeBatchInput struct {
	SubmittedBy string
	Files       []BatchFile
}

// IntakeService drives the document intake pipeline: archive each file,
// extract it through the AI pipeline, accumulate results, then consolidate.
type IntakeService interface {
	ProcessBatch(ctx context.Context, input *IntakeBatchInput) (*domain.ConsolidatedOutput, error)
}

type intakeService struct {
	extractor    port.DocumentExtractor
	storage      port.ObjectStorage
	docRepo      port.DocumentResultRepository
	email        port.EmailSender
	consolidator *consolidate.Consolidator
	rules        []consolidate.DerivedRule
	s3cfg        *config.S3Config
	notifyTo     string
}

// NewIntakeService creates a new IntakeService implementation.
func NewIntakeService(
	docExtractor port.DocumentExtractor,
	storage port.ObjectStorage,
	docRepo port.DocumentResultRepository,
	email port.EmailSender,
	consolidator *consolidate.Consolidator,
	s3cfg *config.S3Config,
	notifyTo string,
) IntakeService {
	return &intakeService{
		extractor:    docExtractor,
		storage:      storage,
		docRepo:      docRepo,
		email:        email,
		consolidator: consolidator,
		rules:        consolidate.DefaultRules(),
		s3cfg:        s3cfg,
		notifyTo:     notifyTo,
	}
}

// ProcessBatch processes files one at a time, in submission order, so that
// progress is deterministic and reportable. A per-file failure is recorded
// and the batch continues; partial success is the expected steady state.
// Cancellation stops submitting further files; results accumulated so far
// still consolidate.
func (s *intakeService) ProcessBatch(ctx context.Context, input *IntakeBatchInput) (*domain.ConsolidatedOutput, error) {
	if len(input.Files) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	results := make([]domain.DocumentResult, 0, len(input.Files))
	var failures []domain.ProcessingError

	for i := range input.Files {
		if ctx.Err() != nil {
			log.Printf("intakeService.ProcessBatch: canceled after %d/%d files", i, len(input.Files))
			break
		}
		file := &input.Files[i]
		log.Printf("intakeService.ProcessBatch: processing %s (%d/%d)", file.Filename, i+1, len(input.Files))

		result, err := s.processOne(ctx, file)
		if err != nil {
			log.Printf("intakeService.ProcessBatch: %s failed: %v", file.Filename, err)
			failures = append(failures, domain.ProcessingError{Filename: file.Filename, Error: err.Error()})
			continue
		}
		results = append(results, *result)
	}

	if len(results) == 0 {
		return nil, domain.ErrNoDocumentsProcessed
	}

	record := s.consolidator.Consolidate(results)
	record = consolidate.ApplyDerivedRules(record, s.rules)
	record.Errors = failures

	output := consolidate.BuildOutput(record, results)
	log.Printf("intakeService.ProcessBatch: consolidated %d fields from %d documents (%d failures)",
		output.Metadata.TotalFields, len(results), len(failures))

	s.notify(ctx, output)
	return output, nil
}

// processOne archives the file and runs it through the extraction pipeline.
// The archive is best-effort: a storage failure does not waste a successful
// extraction, it is only logged.
func (s *intakeService) processOne(ctx context.Context, file *BatchFile) (*domain.DocumentResult, error) {
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         fmt.Sprintf("intake/%s/%s", uuid.New(), file.Filename),
		Body:        bytes.NewReader(file.Data),
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
	}); err != nil {
		log.Printf("intakeService.processOne: archive failed for %s: %v", file.Filename, err)
	}

	result, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   file.Data,
		Filename:    file.Filename,
		ContentType: file.ContentType,
	})
	if err != nil {
		return nil, err
	}

	s.storeResult(ctx, result)
	return result, nil
}

// storeResult persists the raw extraction result for audit. Failures are
// logged but never block the batch.
func (s *intakeService) storeResult(ctx context.Context, result *domain.DocumentResult) {
	if s.docRepo == nil {
		return
	}
	extracted, err := json.Marshal(result.Fields)
	if err != nil {
		log.Printf("intakeService.storeResult: marshaling fields for %s: %v", result.DocumentID, err)
		return
	}
	stored := &domain.StoredDocumentResult{
		ID:                       uuid.New(),
		DocumentID:               result.DocumentID,
		Filename:                 result.Filename,
		DocumentType:             result.DocumentType,
		ClassificationConfidence: result.ClassificationConfidence,
		ExtractedData:            extracted,
	}
	if err := s.docRepo.Create(ctx, stored); err != nil {
		log.Printf("intakeService.storeResult: persisting result for %s: %v", result.DocumentID, err)
	}
}

func (s *intakeService) notify(ctx context.Context, output *domain.ConsolidatedOutput) {
	if s.email == nil || s.notifyTo == "" {
		return
	}
	if err := s.email.SendBatchSummary(ctx, s.notifyTo, output.Metadata, output.Errors); err != nil {
		log.Printf("intakeService.notify: sending batch summary: %v", err)
	}
}
