package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

// PlatformRepository provides database access for platforms.
type PlatformRepository struct {
	db *sqlx.DB
}

// NewPlatformRepository creates a new instance.
func NewPlatformRepository(db *sqlx.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// FindByID returns a platform by identifier.
func (r *PlatformRepository) FindByID(ctx context.Context, id string) (*models.Platform, error) {
	const query = `SELECT id, name, slug, category, allowed_type_ids, auto_approve_types, status, created_at, updated_at
FROM platforms WHERE id = $1 LIMIT 1`
	var platform models.Platform
	if err := r.db.GetContext(ctx, &platform, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find platform by id: %w", err)
	}
	return &platform, nil
}

// ListReferencingType returns platforms whose allowlist contains the type id.
func (r *PlatformRepository) ListReferencingType(ctx context.Context, typeID string) ([]models.Platform, error) {
	const query = `SELECT id, name, slug, category, allowed_type_ids, auto_approve_types, status, created_at, updated_at
FROM platforms WHERE allowed_type_ids @> $1`
	ref, err := models.StringSlice{typeID}.Value()
	if err != nil {
		return nil, fmt.Errorf("encode allowlist probe: %w", err)
	}
	var platforms []models.Platform
	if err := r.db.SelectContext(ctx, &platforms, query, ref); err != nil {
		return nil, fmt.Errorf("list platforms referencing type: %w", err)
	}
	return platforms, nil
}

// UpdateAllowedTypes replaces the manual organization-type allowlist.
func (r *PlatformRepository) UpdateAllowedTypes(ctx context.Context, id string, typeIDs models.StringSlice) error {
	const query = `UPDATE platforms SET allowed_type_ids = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, typeIDs)
	if err != nil {
		return fmt.Errorf("update platform allowed types: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
