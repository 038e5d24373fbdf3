package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

const documentTypeColumns = `id, name, key, layer, required, description, active, sort_order,
max_size_bytes, allowed_mime_types, layer_requirements, created_at, updated_at`

// DocumentTypeRepository provides database access for document types.
type DocumentTypeRepository struct {
	db *sqlx.DB
}

// NewDocumentTypeRepository creates a new instance.
func NewDocumentTypeRepository(db *sqlx.DB) *DocumentTypeRepository {
	return &DocumentTypeRepository{db: db}
}

// Create inserts a new document type.
func (r *DocumentTypeRepository) Create(ctx context.Context, t *models.DocumentType) error {
	const query = `INSERT INTO document_types
(id, name, key, layer, required, description, active, sort_order, max_size_bytes,
 allowed_mime_types, layer_requirements, created_at, updated_at)
VALUES (:id, :name, :key, :layer, :required, :description, :active, :sort_order, :max_size_bytes,
 :allowed_mime_types, :layer_requirements, :created_at, :updated_at)`
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("insert document type: %w", err)
	}
	return nil
}

// FindByID returns a document type by identifier.
func (r *DocumentTypeRepository) FindByID(ctx context.Context, id string) (*models.DocumentType, error) {
	query := fmt.Sprintf(`SELECT %s FROM document_types WHERE id = $1 LIMIT 1`, documentTypeColumns)
	var t models.DocumentType
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document type by id: %w", err)
	}
	return &t, nil
}

// FindByKey returns a document type by its globally unique key.
func (r *DocumentTypeRepository) FindByKey(ctx context.Context, key string) (*models.DocumentType, error) {
	query := fmt.Sprintf(`SELECT %s FROM document_types WHERE key = $1 LIMIT 1`, documentTypeColumns)
	var t models.DocumentType
	if err := r.db.GetContext(ctx, &t, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document type by key: %w", err)
	}
	return &t, nil
}

// List returns document types for a layer (or all layers when nil), ordered
// for display.
func (r *DocumentTypeRepository) List(ctx context.Context, layer *models.DocumentLayer, includeInactive bool) ([]models.DocumentType, error) {
	query := fmt.Sprintf(`SELECT %s FROM document_types WHERE 1=1`, documentTypeColumns)
	var args []interface{}
	if layer != nil {
		args = append(args, *layer)
		query += fmt.Sprintf(" AND layer = $%d", len(args))
	}
	if !includeInactive {
		query += " AND active = TRUE"
	}
	query += " ORDER BY sort_order ASC, name ASC"

	var types []models.DocumentType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	return types, nil
}

// Update persists all mutable fields, including the override list.
func (r *DocumentTypeRepository) Update(ctx context.Context, t *models.DocumentType) error {
	const query = `UPDATE document_types SET
name = :name, required = :required, description = :description, active = :active,
sort_order = :sort_order, max_size_bytes = :max_size_bytes,
allowed_mime_types = :allowed_mime_types, layer_requirements = :layer_requirements,
updated_at = :updated_at
WHERE id = :id`
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("update document type: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document type permanently. Callers enforce the dependent-
// document guard before invoking this.
func (r *DocumentTypeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM document_types WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document type: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
