package port

import (
	"context"

	"github.com/google/uuid"

	"propfolio/internal/domain"
)

// PropertyRepository defines the contract for property record persistence.
type PropertyRepository interface {
	Create(ctx context.Context, record *domain.PropertyRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.PropertyRecord, int, error)
	Update(ctx context.Context, record *domain.PropertyRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentResultRepository defines the contract for persisting per-document
// extraction results for audit.
type DocumentResultRepository interface {
	Create(ctx context.Context, result *domain.StoredDocumentResult) error
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.StoredDocumentResult, error)
	LinkToProperty(ctx context.Context, propertyID uuid.UUID, documentIDs []string) error
}

// FileMetaRepository defines the contract for file metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, fileID uuid.UUID) error
}
