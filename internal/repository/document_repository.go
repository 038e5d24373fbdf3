package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

// DocumentRepository provides database access for uploaded documents.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new instance.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a document record.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	const query = `INSERT INTO documents
(id, type_key, owner_layer, owner_id, file_name, file_path, mime_type, size_bytes, uploaded_by, created_at)
VALUES (:id, :type_key, :owner_layer, :owner_id, :file_name, :file_path, :mime_type, :size_bytes, :uploaded_by, :created_at)`
	doc.CreatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// FindByID returns a document by identifier.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	const query = `SELECT id, type_key, owner_layer, owner_id, file_name, file_path, mime_type, size_bytes, uploaded_by, created_at
FROM documents WHERE id = $1 LIMIT 1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return &doc, nil
}

// ListByOwner returns documents attached to one owner entity.
func (r *DocumentRepository) ListByOwner(ctx context.Context, layer models.DocumentLayer, ownerID string) ([]models.Document, error) {
	const query = `SELECT id, type_key, owner_layer, owner_id, file_name, file_path, mime_type, size_bytes, uploaded_by, created_at
FROM documents WHERE owner_layer = $1 AND owner_id = $2 ORDER BY created_at DESC`
	var docs []models.Document
	if err := r.db.SelectContext(ctx, &docs, query, layer, ownerID); err != nil {
		return nil, fmt.Errorf("list documents by owner: %w", err)
	}
	return docs, nil
}

// CountByTypeKey returns how many documents reference the given type key.
// A non-zero count blocks deletion of the document type.
func (r *DocumentRepository) CountByTypeKey(ctx context.Context, typeKey string) (int, error) {
	const query = `SELECT COUNT(*) FROM documents WHERE type_key = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, typeKey); err != nil {
		return 0, fmt.Errorf("count documents by type key: %w", err)
	}
	return count, nil
}
