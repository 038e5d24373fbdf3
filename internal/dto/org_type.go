package dto

// CreateOrgTypeRequest describes payload for proposing or creating a type.
type CreateOrgTypeRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=64,lowercase"`
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Category    string `json:"category" validate:"required"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// RejectOrgTypeRequest carries the rejection reason.
type RejectOrgTypeRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// PromoteOrgTypeRequest optionally names an explicit merge target.
type PromoteOrgTypeRequest struct {
	MergeWithID string `json:"merge_with_id"`
}

// PromoteOrgTypeResult reports the outcome of a promotion.
type PromoteOrgTypeResult struct {
	Merged        bool   `json:"merged"`
	MergedIntoID  string `json:"merged_into_id,omitempty"`
	MigratedCount int    `json:"migrated_count"`
}

// BulkReviewRequest applies approve or reject to a set of pending types.
type BulkReviewRequest struct {
	TypeIDs []string `json:"type_ids" validate:"required,min=1,dive,required"`
	Action  string   `json:"action" validate:"required,oneof=approve reject"`
	Reason  string   `json:"reason"`
}

// BulkReviewFailure records a per-item failure inside a batch.
type BulkReviewFailure struct {
	TypeID string `json:"type_id"`
	Error  string `json:"error"`
}

// BulkReviewResult summarises a bulk approve/reject run. Items not found or
// not pending are counted as skipped and do not abort the batch.
type BulkReviewResult struct {
	Approved int                 `json:"approved"`
	Rejected int                 `json:"rejected"`
	Skipped  int                 `json:"skipped"`
	Failed   []BulkReviewFailure `json:"failed"`
}

// ListOrgTypesQuery mirrors the directory read-path query string.
type ListOrgTypesQuery struct {
	PlatformID      string `form:"platform_id"`
	Category        string `form:"category"`
	Scope           string `form:"scope"`
	IncludeInactive bool   `form:"include_inactive"`
}

// SearchOrgTypesQuery mirrors the search endpoint query string.
type SearchOrgTypesQuery struct {
	Query      string `form:"q"`
	Category   string `form:"category"`
	Scope      string `form:"scope"`
	PlatformID string `form:"platform_id"`
	Limit      int    `form:"limit"`
}
