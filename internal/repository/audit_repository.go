package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

// AuditRepository appends and reads the immutable audit trail. There are no
// update or delete operations on audit_logs.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new instance.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog appends a record to the trail.
func (r *AuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	const query = `INSERT INTO audit_logs
(id, user_id, action, resource, resource_id, platform_id, details, ip_address, user_agent, created_at)
VALUES (:id, :user_id, :action, :resource, :resource_id, :platform_id, :details, :ip_address, :user_agent, :created_at)`
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns audit entries matching the filter with total count, newest first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	baseQuery := `FROM audit_logs WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Action != nil {
		args = append(args, *filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.Resource != nil {
		args = append(args, *filter.Resource)
		conditions = append(conditions, fmt.Sprintf("resource = $%d", len(args)))
	}
	if filter.PlatformID != nil {
		args = append(args, *filter.PlatformID)
		conditions = append(conditions, fmt.Sprintf("platform_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)

	query := fmt.Sprintf(`SELECT id, user_id, action, resource, resource_id, platform_id, details, ip_address, user_agent, created_at %s
ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, baseQuery, len(args)-1, len(args))

	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
