package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"propfolio/internal/domain"
	"propfolio/internal/port"
)

type documentResultRepo struct {
	db *sqlx.DB
}

// NewDocumentResultRepo creates a new PostgreSQL-backed DocumentResultRepository.
func NewDocumentResultRepo(db *sqlx.DB) port.DocumentResultRepository {
	return &documentResultRepo{db: db}
}

func (r *documentResultRepo) Create(ctx context.Context, result *domain.StoredDocumentResult) error {
	result.CreatedAt = time.Now().UTC()

	query := `INSERT INTO document_results
		(id, property_id, document_id, filename, document_type,
		 classification_confidence, extracted_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		result.ID, result.PropertyID, result.DocumentID, result.Filename,
		result.DocumentType, result.ClassificationConfidence,
		result.ExtractedData, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("documentResultRepo.Create: %w", err)
	}
	return nil
}

func (r *documentResultRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.StoredDocumentResult, error) {
	var results []domain.StoredDocumentResult
	err := r.db.SelectContext(ctx, &results,
		`SELECT * FROM document_results WHERE property_id = $1 ORDER BY created_at`,
		propertyID)
	if err != nil {
		return nil, fmt.Errorf("documentResultRepo.ListByProperty: %w", err)
	}
	return results, nil
}

func (r *documentResultRepo) LinkToProperty(ctx context.Context, propertyID uuid.UUID, documentIDs []string) error {
	query, args, err := sqlx.In(
		"UPDATE document_results SET property_id = ? WHERE document_id IN (?)",
		propertyID, documentIDs)
	if err != nil {
		return fmt.Errorf("documentResultRepo.LinkToProperty building query: %w", err)
	}
	query = r.db.Rebind(query)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("documentResultRepo.LinkToProperty: %w", err)
	}
	return nil
}
