package models

import "time"

// OrgTypeScope distinguishes catalogue-wide types from platform-local ones.
type OrgTypeScope string

const (
	OrgTypeScopeGlobal   OrgTypeScope = "GLOBAL"
	OrgTypeScopePlatform OrgTypeScope = "PLATFORM"
)

// OrgTypeStatus is the lifecycle state of an organization type.
//
// PENDING_APPROVAL -> ACTIVE (approve) | INACTIVE (reject)
// ACTIVE (platform) -> ARCHIVED (archive, usage must be zero) | GLOBAL (promote)
type OrgTypeStatus string

const (
	OrgTypeStatusPending  OrgTypeStatus = "PENDING_APPROVAL"
	OrgTypeStatusActive   OrgTypeStatus = "ACTIVE"
	OrgTypeStatusInactive OrgTypeStatus = "INACTIVE"
	OrgTypeStatusArchived OrgTypeStatus = "ARCHIVED"
)

// OrganizationType is a governed organization-type definition.
// Scope invariant: GLOBAL implies platform_id is NULL, PLATFORM implies it is set.
// MergeTargetID is non-nil only while a merge into a global type is in flight;
// it is the journal marker that lets an interrupted merge be detected and resumed.
type OrganizationType struct {
	ID              string        `db:"id" json:"id"`
	Code            string        `db:"code" json:"code"`
	Name            string        `db:"name" json:"name"`
	Category        string        `db:"category" json:"category"`
	Icon            string        `db:"icon" json:"icon"`
	Description     *string       `db:"description" json:"description,omitempty"`
	Scope           OrgTypeScope  `db:"scope" json:"scope"`
	PlatformID      *string       `db:"platform_id" json:"platform_id,omitempty"`
	Status          OrgTypeStatus `db:"status" json:"status"`
	Active          bool          `db:"active" json:"active"`
	UsageCount      int           `db:"usage_count" json:"usage_count"`
	CreatedBy       string        `db:"created_by" json:"created_by"`
	ApprovedBy      *string       `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	RejectionReason *string       `db:"rejection_reason" json:"rejection_reason,omitempty"`
	LastReviewedAt  *time.Time    `db:"last_reviewed_at" json:"last_reviewed_at,omitempty"`
	MergeTargetID   *string       `db:"merge_target_id" json:"merge_target_id,omitempty"`
	DeletedAt       *time.Time    `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// IsPending reports whether the type still awaits review.
func (t *OrganizationType) IsPending() bool {
	return t.Status == OrgTypeStatusPending
}

// OrgTypeFilter captures list-query parameters for the directory read path.
type OrgTypeFilter struct {
	PlatformID      *string
	Category        *string
	Scope           *OrgTypeScope
	IncludeInactive bool
	IDs             []string
}

// OrgTypeSearch captures parameters for the search endpoint.
type OrgTypeSearch struct {
	Query      string
	Category   *string
	Scope      *OrgTypeScope
	PlatformID *string
	Limit      int
}

// OrgTypeReviewItem is one row of the periodic governance review report.
// PromotionEligible is advisory only; promotion always requires a human
// super-admin decision.
type OrgTypeReviewItem struct {
	Type              OrganizationType `json:"type"`
	UsageCount        int              `json:"usage_count"`
	SiblingCodeCount  int              `json:"sibling_code_count"`
	PromotionEligible bool             `json:"promotion_eligible"`
}
