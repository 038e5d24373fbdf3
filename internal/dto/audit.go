package dto

// ListAuditLogsQuery mirrors the audit listing query string.
type ListAuditLogsQuery struct {
	UserID     string `form:"user_id"`
	Action     string `form:"action"`
	Resource   string `form:"resource"`
	PlatformID string `form:"platform_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ExportAuditLogsQuery selects the export rendering format.
type ExportAuditLogsQuery struct {
	ListAuditLogsQuery
	Format string `form:"format"`
}
