package models

import "time"

// UserRole represents the available roles for the RBAC system, ordered from
// highest to lowest privilege: SUPER_ADMIN > PLATFORM_ADMIN >
// ORGANIZATION_ADMIN > USER.
type UserRole string

const (
	RoleSuperAdmin    UserRole = "SUPER_ADMIN"
	RolePlatformAdmin UserRole = "PLATFORM_ADMIN"
	RoleOrgAdmin      UserRole = "ORGANIZATION_ADMIN"
	RoleUser          UserRole = "USER"
)

// User represents an application user stored in the users table. Platform and
// organization scope are present according to role: a platform_admin carries a
// platform id, an organization_admin carries both.
type User struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	FullName       string     `db:"full_name" json:"full_name"`
	Role           UserRole   `db:"role" json:"role"`
	PlatformID     *string    `db:"platform_id" json:"platform_id,omitempty"`
	OrganizationID *string    `db:"organization_id" json:"organization_id,omitempty"`
	Active         bool       `db:"active" json:"active"`
	LastLogin      *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
