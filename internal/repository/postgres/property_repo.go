package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"propfolio/internal/domain"
	"propfolio/internal/port"
)

type propertyRepo struct {
	db *sqlx.DB
}

// NewPropertyRepo creates a new PostgreSQL-backed PropertyRepository.
func NewPropertyRepo(db *sqlx.DB) port.PropertyRepository {
	return &propertyRepo{db: db}
}

func (r *propertyRepo) Create(ctx context.Context, record *domain.PropertyRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	query := `INSERT INTO property_records
		(id, name, fields, form_mapping, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.Name, record.Fields, record.FormMapping,
		record.CreatedBy, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("propertyRepo.Create: %w", err)
	}
	return nil
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyRecord, error) {
	var record domain.PropertyRecord
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM property_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("propertyRepo.GetByID: %w", err)
	}
	return &record, nil
}

func (r *propertyRepo) List(ctx context.Context, offset, limit int) ([]domain.PropertyRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM property_records"); err != nil {
		return nil, 0, fmt.Errorf("propertyRepo.List count: %w", err)
	}

	var records []domain.PropertyRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM property_records ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("propertyRepo.List: %w", err)
	}
	return records, total, nil
}

func (r *propertyRepo) Update(ctx context.Context, record *domain.PropertyRecord) error {
	record.UpdatedAt = time.Now().UTC()

	query := `UPDATE property_records
		SET name = $2, fields = $3, form_mapping = $4, updated_at = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		record.ID, record.Name, record.Fields, record.FormMapping, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("propertyRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM property_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("propertyRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}
