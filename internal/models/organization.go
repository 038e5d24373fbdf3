package models

import "time"

// Organization is a tenant under a platform. TypeID points at an
// OrganizationType and is rewritten in bulk when a platform type is merged
// into a global one.
type Organization struct {
	ID         string    `db:"id" json:"id"`
	PlatformID string    `db:"platform_id" json:"platform_id"`
	Name       string    `db:"name" json:"name"`
	TypeID     *string   `db:"type_id" json:"type_id,omitempty"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
