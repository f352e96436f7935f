package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"propfolio/internal/domain"
	"propfolio/internal/port"
	"propfolio/internal/xlsxexport"
)

// CreatePropertyInput is the DTO for creating a property record from a
// reviewed consolidated output.
type CreatePropertyInput struct {
	Name        string                              `json:"name" binding:"required"`
	Fields      map[string]domain.ConsolidatedField `json:"fields" binding:"required"`
	FormMapping map[string]any                      `json:"form_mapping" binding:"required"`
	DocumentIDs []string                            `json:"document_ids"`
	CreatedBy   string                              `json:"-"`
}

// UpdatePropertyInput is the DTO for revising a property record after manual
// review, e.g. correcting a consolidated value the pipeline got wrong.
type UpdatePropertyInput struct {
	Name        string                              `json:"name" binding:"required"`
	Fields      map[string]domain.ConsolidatedField `json:"fields" binding:"required"`
	FormMapping map[string]any                      `json:"form_mapping" binding:"required"`
}

// PropertyService defines the property record management contract.
type PropertyService interface {
	Create(ctx context.Context, input *CreatePropertyInput) (*domain.PropertyRecord, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdatePropertyInput) (*domain.PropertyRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.PropertyRecord, int, error)
	ListDocuments(ctx context.Context, id uuid.UUID) ([]domain.StoredDocumentResult, error)
	ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type propertyService struct {
	propertyRepo port.PropertyRepository
	docRepo      port.DocumentResultRepository
}

// NewPropertyService creates a new PropertyService implementation.
func NewPropertyService(propertyRepo port.PropertyRepository, docRepo port.DocumentResultRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo, docRepo: docRepo}
}

// validateFormMapping checks that formMapping[f] mirrors fields[f].value.
// Drift between the two views means the payload was edited inconsistently
// and must not be persisted.
func validateFormMapping(fields map[string]domain.ConsolidatedField, formMapping map[string]any) error {
	for name, field := range fields {
		mapped, ok := formMapping[name]
		if !ok || fmt.Sprint(mapped) != fmt.Sprint(field.Value) {
			return domain.ErrInvalidConsolidatedData
		}
	}
	return nil
}

func (s *propertyService) Create(ctx context.Context, input *CreatePropertyInput) (*domain.PropertyRecord, error) {
	if err := validateFormMapping(input.Fields, input.FormMapping); err != nil {
		return nil, err
	}

	fieldsJSON, err := json.Marshal(input.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling fields: %w", err)
	}
	mappingJSON, err := json.Marshal(input.FormMapping)
	if err != nil {
		return nil, fmt.Errorf("marshaling form mapping: %w", err)
	}

	record := &domain.PropertyRecord{
		ID:          uuid.New(),
		Name:        input.Name,
		Fields:      fieldsJSON,
		FormMapping: mappingJSON,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.propertyRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("creating property record: %w", err)
	}

	if len(input.DocumentIDs) > 0 {
		if err := s.docRepo.LinkToProperty(ctx, record.ID, input.DocumentIDs); err != nil {
			// The record exists; a broken document link is an audit gap, not
			// a failed create.
			log.Printf("propertyService.Create: linking documents to %s: %v", record.ID, err)
		}
	}

	log.Printf("propertyService.Create: created property %s (%d fields, %d documents)",
		record.ID, len(input.Fields), len(input.DocumentIDs))
	return record, nil
}

func (s *propertyService) Update(ctx context.Context, id uuid.UUID, input *UpdatePropertyInput) (*domain.PropertyRecord, error) {
	record, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateFormMapping(input.Fields, input.FormMapping); err != nil {
		return nil, err
	}

	fieldsJSON, err := json.Marshal(input.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling fields: %w", err)
	}
	mappingJSON, err := json.Marshal(input.FormMapping)
	if err != nil {
		return nil, fmt.Errorf("marshaling form mapping: %w", err)
	}

	record.Name = input.Name
	record.Fields = fieldsJSON
	record.FormMapping = mappingJSON
	if err := s.propertyRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	log.Printf("propertyService.Update: updated property %s (%d fields)", record.ID, len(input.Fields))
	return record, nil
}

func (s *propertyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) List(ctx context.Context, offset, limit int) ([]domain.PropertyRecord, int, error) {
	return s.propertyRepo.List(ctx, offset, limit)
}

func (s *propertyService) ListDocuments(ctx context.Context, id uuid.UUID) ([]domain.StoredDocumentResult, error) {
	if _, err := s.propertyRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.docRepo.ListByProperty(ctx, id)
}

func (s *propertyService) ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	record, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var fields map[string]domain.ConsolidatedField
	if err := json.Unmarshal(record.Fields, &fields); err != nil {
		return nil, "", fmt.Errorf("unmarshaling fields: %w", err)
	}

	data, err := xlsxexport.Write(record.Name, fields)
	if err != nil {
		return nil, "", fmt.Errorf("building workbook: %w", err)
	}
	filename := fmt.Sprintf("property-%s.xlsx", record.ID)
	return data, filename, nil
}

func (s *propertyService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.propertyRepo.Delete(ctx, id)
}
