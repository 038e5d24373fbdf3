package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

// SystemConfigRepository persists system configuration entries.
type SystemConfigRepository struct {
	db *sqlx.DB
}

// NewSystemConfigRepository constructs the repository.
func NewSystemConfigRepository(db *sqlx.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// ListByKeys returns configuration entries whose key is in the provided slice.
func (r *SystemConfigRepository) ListByKeys(ctx context.Context, keys []string) ([]models.SystemConfig, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT key, value, type, category, description, updated_by, updated_at
FROM system_config WHERE key IN (%s) ORDER BY key ASC`, placeholders(len(keys)))
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	var configs []models.SystemConfig
	if err := r.db.SelectContext(ctx, &configs, query, args...); err != nil {
		return nil, fmt.Errorf("list system config: %w", err)
	}
	return configs, nil
}

// Get fetches a single entry by key.
func (r *SystemConfigRepository) Get(ctx context.Context, key string) (*models.SystemConfig, error) {
	const query = `SELECT key, value, type, category, description, updated_by, updated_at FROM system_config WHERE key = $1`
	var cfg models.SystemConfig
	if err := r.db.GetContext(ctx, &cfg, query, key); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert inserts or updates a configuration entry.
func (r *SystemConfigRepository) Upsert(ctx context.Context, cfg *models.SystemConfig) error {
	const query = `INSERT INTO system_config (key, value, type, category, description, updated_by, updated_at)
VALUES (:key, :value, :type, :category, :description, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, category = EXCLUDED.category,
              description = EXCLUDED.description, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	cfg.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert system config: %w", err)
	}
	return nil
}

// BulkUpsert performs upserts within a transaction.
func (r *SystemConfigRepository) BulkUpsert(ctx context.Context, cfgs []models.SystemConfig) error {
	if len(cfgs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk system config tx: %w", err)
	}
	const query = `INSERT INTO system_config (key, value, type, category, description, updated_by, updated_at)
VALUES (:key, :value, :type, :category, :description, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, category = EXCLUDED.category,
              description = EXCLUDED.description, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	for i := range cfgs {
		cfgs[i].UpdatedAt = time.Now().UTC()
		if _, err := tx.NamedExecContext(ctx, query, cfgs[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk upsert system config: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk system config tx: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	values := make([]string, n)
	for i := 1; i <= n; i++ {
		values[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(values, ",")
}
