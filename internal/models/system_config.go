package models

import "time"

// SystemConfigType defines supported types for system configuration values.
type SystemConfigType string

const (
	SystemConfigTypeString  SystemConfigType = "STRING"
	SystemConfigTypeInt     SystemConfigType = "INT"
	SystemConfigTypeBoolean SystemConfigType = "BOOLEAN"
)

// SystemConfig represents a persisted configuration entry with upsert
// semantics; defaults are materialized on first read when absent.
type SystemConfig struct {
	Key         string           `db:"key" json:"key"`
	Value       string           `db:"value" json:"value"`
	Type        SystemConfigType `db:"type" json:"type"`
	Category    string           `db:"category" json:"category"`
	Description *string          `db:"description" json:"description,omitempty"`
	UpdatedBy   *string          `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
