package models

import "time"

// PlatformStatus is the operational state of a platform tenant.
type PlatformStatus string

const (
	PlatformStatusActive    PlatformStatus = "ACTIVE"
	PlatformStatusSuspended PlatformStatus = "SUSPENDED"
)

// Platform is a top-level tenant. AllowedTypeIDs is the manual organization-type
// allowlist: when non-empty it is authoritative for the directory read path;
// when empty the effective allowed set is derived by matching the platform
// category against global types ("auto-filter" mode).
type Platform struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Slug             string         `db:"slug" json:"slug"`
	Category         *string        `db:"category" json:"category,omitempty"`
	AllowedTypeIDs   StringSlice    `db:"allowed_type_ids" json:"allowed_type_ids"`
	AutoApproveTypes bool           `db:"auto_approve_types" json:"auto_approve_types"`
	Status           PlatformStatus `db:"status" json:"status"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// ManualAllowlist reports whether the platform pins its allowed types explicitly.
func (p *Platform) ManualAllowlist() bool {
	return len(p.AllowedTypeIDs) > 0
}
