package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

// orgTypeColumns selects all stored columns plus the computed usage count.
const orgTypeColumns = `t.id, t.code, t.name, t.category, t.icon, t.description, t.scope, t.platform_id,
t.status, t.active, t.created_by, t.approved_by, t.approved_at, t.rejection_reason,
t.last_reviewed_at, t.merge_target_id, t.deleted_at, t.created_at, t.updated_at,
(SELECT COUNT(*) FROM organizations o WHERE o.type_id = t.id) AS usage_count`

// OrganizationTypeRepository provides database access for organization types.
type OrganizationTypeRepository struct {
	db *sqlx.DB
}

// NewOrganizationTypeRepository creates a new instance.
func NewOrganizationTypeRepository(db *sqlx.DB) *OrganizationTypeRepository {
	return &OrganizationTypeRepository{db: db}
}

// Create inserts a new organization type.
func (r *OrganizationTypeRepository) Create(ctx context.Context, t *models.OrganizationType) error {
	const query = `INSERT INTO organization_types
(id, code, name, category, icon, description, scope, platform_id, status, active,
 created_by, approved_by, approved_at, rejection_reason, last_reviewed_at, merge_target_id,
 deleted_at, created_at, updated_at)
VALUES (:id, :code, :name, :category, :icon, :description, :scope, :platform_id, :status, :active,
 :created_by, :approved_by, :approved_at, :rejection_reason, :last_reviewed_at, :merge_target_id,
 :deleted_at, :created_at, :updated_at)`
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("insert organization type: %w", err)
	}
	return nil
}

// FindByID returns a type by identifier with its computed usage count.
func (r *OrganizationTypeRepository) FindByID(ctx context.Context, id string) (*models.OrganizationType, error) {
	query := fmt.Sprintf(`SELECT %s FROM organization_types t WHERE t.id = $1 LIMIT 1`, orgTypeColumns)
	var t models.OrganizationType
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find organization type by id: %w", err)
	}
	return &t, nil
}

// FindByCode looks up a type by code within one scope. For PLATFORM scope the
// platform id narrows the search; GLOBAL scope ignores it. Codes are unique
// per scope, independently.
func (r *OrganizationTypeRepository) FindByCode(ctx context.Context, code string, scope models.OrgTypeScope, platformID *string) (*models.OrganizationType, error) {
	query := fmt.Sprintf(`SELECT %s FROM organization_types t WHERE t.code = $1 AND t.scope = $2`, orgTypeColumns)
	args := []interface{}{code, scope}
	if scope == models.OrgTypeScopePlatform && platformID != nil {
		query += ` AND t.platform_id = $3`
		args = append(args, *platformID)
	}
	query += ` LIMIT 1`
	var t models.OrganizationType
	if err := r.db.GetContext(ctx, &t, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find organization type by code: %w", err)
	}
	return &t, nil
}

// Update persists all mutable fields of the type.
func (r *OrganizationTypeRepository) Update(ctx context.Context, t *models.OrganizationType) error {
	const query = `UPDATE organization_types SET
code = :code, name = :name, category = :category, icon = :icon, description = :description,
scope = :scope, platform_id = :platform_id, status = :status, active = :active,
approved_by = :approved_by, approved_at = :approved_at, rejection_reason = :rejection_reason,
last_reviewed_at = :last_reviewed_at, merge_target_id = :merge_target_id,
deleted_at = :deleted_at, updated_at = :updated_at
WHERE id = :id`
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("update organization type: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns types matching the filter, ordered by name.
func (r *OrganizationTypeRepository) List(ctx context.Context, filter models.OrgTypeFilter) ([]models.OrganizationType, error) {
	query := fmt.Sprintf(`SELECT %s FROM organization_types t WHERE t.deleted_at IS NULL`, orgTypeColumns)
	var args []interface{}

	if len(filter.IDs) > 0 {
		placeholders := make([]string, len(filter.IDs))
		for i, id := range filter.IDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += fmt.Sprintf(" AND t.id IN (%s)", strings.Join(placeholders, ","))
	}
	if filter.Scope != nil {
		args = append(args, *filter.Scope)
		query += fmt.Sprintf(" AND t.scope = $%d", len(args))
	}
	if filter.PlatformID != nil {
		args = append(args, *filter.PlatformID)
		query += fmt.Sprintf(" AND t.platform_id = $%d", len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND t.category = $%d", len(args))
	}
	if !filter.IncludeInactive {
		query += " AND t.active = TRUE"
	}
	query += " ORDER BY t.name ASC"

	var types []models.OrganizationType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, fmt.Errorf("list organization types: %w", err)
	}
	return types, nil
}

// Search performs a case-insensitive substring match over code, name and
// description, surfacing popular types first.
func (r *OrganizationTypeRepository) Search(ctx context.Context, params models.OrgTypeSearch) ([]models.OrganizationType, error) {
	query := fmt.Sprintf(`SELECT %s FROM organization_types t WHERE t.deleted_at IS NULL AND t.active = TRUE`, orgTypeColumns)
	args := []interface{}{}

	if params.Query != "" {
		args = append(args, "%"+strings.ToLower(params.Query)+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (LOWER(t.code) LIKE $%d OR LOWER(t.name) LIKE $%d OR LOWER(COALESCE(t.description, '')) LIKE $%d)", n, n, n)
	}
	if params.Category != nil {
		args = append(args, *params.Category)
		query += fmt.Sprintf(" AND t.category = $%d", len(args))
	}
	if params.Scope != nil {
		args = append(args, *params.Scope)
		query += fmt.Sprintf(" AND t.scope = $%d", len(args))
	}
	if params.PlatformID != nil {
		args = append(args, *params.PlatformID)
		query += fmt.Sprintf(" AND t.platform_id = $%d", len(args))
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY usage_count DESC, t.name ASC LIMIT $%d", len(args))

	var types []models.OrganizationType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, fmt.Errorf("search organization types: %w", err)
	}
	return types, nil
}

// ListReviewDue returns active platform-scoped types never reviewed or last
// reviewed before the cutoff.
func (r *OrganizationTypeRepository) ListReviewDue(ctx context.Context, cutoff time.Time) ([]models.OrganizationType, error) {
	query := fmt.Sprintf(`SELECT %s FROM organization_types t
WHERE t.scope = $1 AND t.status = $2 AND t.deleted_at IS NULL
AND (t.last_reviewed_at IS NULL OR t.last_reviewed_at < $3)
ORDER BY t.created_at ASC`, orgTypeColumns)
	var types []models.OrganizationType
	if err := r.db.SelectContext(ctx, &types, query, models.OrgTypeScopePlatform, models.OrgTypeStatusActive, cutoff); err != nil {
		return nil, fmt.Errorf("list review-due organization types: %w", err)
	}
	return types, nil
}

// CountSiblingCodes counts active platform-scoped types sharing the code on
// other platforms. Used for the promotion-eligibility signal.
func (r *OrganizationTypeRepository) CountSiblingCodes(ctx context.Context, code string, excludePlatformID string) (int, error) {
	const query = `SELECT COUNT(*) FROM organization_types
WHERE code = $1 AND scope = $2 AND status = $3 AND deleted_at IS NULL
AND platform_id IS NOT NULL AND platform_id <> $4`
	var count int
	if err := r.db.GetContext(ctx, &count, query, code, models.OrgTypeScopePlatform, models.OrgTypeStatusActive, excludePlatformID); err != nil {
		return 0, fmt.Errorf("count sibling codes: %w", err)
	}
	return count, nil
}

// ListMergesInProgress returns types carrying a merge marker. A non-empty
// result after a restart means a merge was interrupted mid-flight.
func (r *OrganizationTypeRepository) ListMergesInProgress(ctx context.Context) ([]models.OrganizationType, error) {
	query := fmt.Sprintf(`SELECT %s FROM organization_types t WHERE t.merge_target_id IS NOT NULL ORDER BY t.updated_at ASC`, orgTypeColumns)
	var types []models.OrganizationType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list merges in progress: %w", err)
	}
	return types, nil
}
