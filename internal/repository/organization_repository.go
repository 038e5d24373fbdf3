package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// OrganizationRepository provides database access for organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository creates a new instance.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// CountByTypeID returns how many organizations reference the given type.
func (r *OrganizationRepository) CountByTypeID(ctx context.Context, typeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM organizations WHERE type_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, typeID); err != nil {
		return 0, fmt.Errorf("count organizations by type: %w", err)
	}
	return count, nil
}

// ReassignType rewrites every organization pointing at fromTypeID to point at
// toTypeID and returns the number of rows migrated. The statement is
// idempotent: re-running it after a partial merge migrates only the remainder.
func (r *OrganizationRepository) ReassignType(ctx context.Context, fromTypeID, toTypeID string) (int, error) {
	const query = `UPDATE organizations SET type_id = $2, updated_at = NOW() WHERE type_id = $1`
	res, err := r.db.ExecContext(ctx, query, fromTypeID, toTypeID)
	if err != nil {
		return 0, fmt.Errorf("reassign organization type: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign organization type rows: %w", err)
	}
	return int(rows), nil
}
