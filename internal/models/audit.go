package models

import "time"

// AuditAction constants represent privileged mutations to be logged.
const (
	AuditActionLogin            = "LOGIN"
	AuditActionOrgTypeCreate    = "ORG_TYPE_CREATE"
	AuditActionOrgTypeApprove   = "ORG_TYPE_APPROVE"
	AuditActionOrgTypeReject    = "ORG_TYPE_REJECT"
	AuditActionOrgTypeArchive   = "ORG_TYPE_ARCHIVE"
	AuditActionOrgTypePromote   = "ORG_TYPE_PROMOTE"
	AuditActionOrgTypeMerge     = "ORG_TYPE_MERGE"
	AuditActionOrgTypeReview    = "ORG_TYPE_REVIEW"
	AuditActionDocTypeCreate    = "DOC_TYPE_CREATE"
	AuditActionDocTypeUpdate    = "DOC_TYPE_UPDATE"
	AuditActionDocTypeDelete    = "DOC_TYPE_DELETE"
	AuditActionDocOverrideSet   = "DOC_OVERRIDE_SET"
	AuditActionDocOverrideClear = "DOC_OVERRIDE_CLEAR"
	AuditActionDocumentUpload   = "DOCUMENT_UPLOAD"
	AuditActionConfigUpdate     = "CONFIG_UPDATE"
)

// AuditLog represents an append-only audit trail record. Entries are never
// updated or deleted.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	PlatformID *string   `db:"platform_id" json:"platform_id,omitempty"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditLogFilter captures filtering criteria for listing audit entries.
type AuditLogFilter struct {
	UserID     *string
	Action     *string
	Resource   *string
	PlatformID *string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
