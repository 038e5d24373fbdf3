package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/service"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/response"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler creates a new handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit log entries
// @Tags AuditLogs
// @Produce json
// @Param user_id query string false "Filter by acting user"
// @Param action query string false "Filter by action"
// @Param resource query string false "Filter by resource kind"
// @Param platform_id query string false "Filter by platform"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query dto.ListAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid audit query"))
		return
	}

	logs, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}

// Export godoc
// @Summary Export the filtered audit trail
// @Tags AuditLogs
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /audit-logs/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	var query dto.ExportAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid audit query"))
		return
	}

	payload, contentType, err := h.service.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("audit-logs-%s.%s", time.Now().UTC().Format("20060102-150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, payload)
}
