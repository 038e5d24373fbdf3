package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/export"
)

type auditLogRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error)
}

// AuditEntry describes a single privileged mutation to record.
type AuditEntry struct {
	Actor      *models.JWTClaims
	Action     string
	Resource   string
	ResourceID string
	PlatformID *string
	Details    interface{}
	IPAddress  string
	UserAgent  string
}

// AuditService writes and queries the append-only audit trail.
type AuditService struct {
	repo    auditLogRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	maxRows int
}

func NewAuditService(repo auditLogRepository, logger *zap.Logger, maxExportRows int) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxExportRows <= 0 {
		maxExportRows = 10000
	}
	return &AuditService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		maxRows: maxExportRows,
	}
}

// Record persists an audit entry. Failures are logged, never propagated:
// an audit write must not fail the operation it describes.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	log := &models.AuditLog{
		Action:    entry.Action,
		Resource:  entry.Resource,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
	}
	if entry.Actor != nil {
		userID := entry.Actor.UserID
		log.UserID = &userID
	}
	if entry.ResourceID != "" {
		resourceID := entry.ResourceID
		log.ResourceID = &resourceID
	}
	log.PlatformID = entry.PlatformID

	if entry.Details != nil {
		payload, err := json.Marshal(entry.Details)
		if err != nil {
			s.logger.Warn("failed to marshal audit details",
				zap.String("action", entry.Action), zap.Error(err))
		} else {
			log.Details = payload
		}
	}

	if err := s.repo.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to write audit log",
			zap.String("action", entry.Action),
			zap.String("resource", entry.Resource),
			zap.Error(err))
	}
}

// List returns filtered audit entries with pagination metadata.
func (s *AuditService) List(ctx context.Context, query dto.ListAuditLogsQuery) ([]models.AuditLog, *models.Pagination, error) {
	filter, err := buildAuditFilter(query)
	if err != nil {
		return nil, nil, err
	}

	logs, total, err := s.repo.List(ctx, *filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return logs, pagination, nil
}

// Export renders the filtered audit trail as CSV or PDF.
func (s *AuditService) Export(ctx context.Context, query dto.ExportAuditLogsQuery) ([]byte, string, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	filter, err := buildAuditFilter(query.ListAuditLogsQuery)
	if err != nil {
		return nil, "", err
	}
	filter.Page = 1
	filter.PageSize = s.maxRows

	logs, _, err := s.repo.List(ctx, *filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit logs for export")
	}

	dataset := export.Dataset{
		Headers: []string{"Timestamp", "User", "Action", "Resource", "Resource ID", "IP Address"},
	}
	for _, log := range logs {
		userID := ""
		if log.UserID != nil {
			userID = *log.UserID
		}
		resourceID := ""
		if log.ResourceID != nil {
			resourceID = *log.ResourceID
		}
		dataset.Append(
			log.CreatedAt.UTC().Format(time.RFC3339),
			userID,
			log.Action,
			log.Resource,
			resourceID,
			log.IPAddress,
		)
	}

	var payload []byte
	var renderErr error
	contentType := "text/csv"
	if format == "pdf" {
		contentType = "application/pdf"
		payload, renderErr = s.pdf.Render(dataset, "Audit Trail")
	} else {
		payload, renderErr = s.csv.Render(dataset)
	}
	if renderErr != nil {
		return nil, "", appErrors.Wrap(renderErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render audit export")
	}

	return payload, contentType, nil
}

func buildAuditFilter(query dto.ListAuditLogsQuery) (*models.AuditLogFilter, error) {
	filter := &models.AuditLogFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if query.UserID != "" {
		filter.UserID = &query.UserID
	}
	if query.Action != "" {
		filter.Action = &query.Action
	}
	if query.Resource != "" {
		filter.Resource = &query.Resource
	}
	if query.PlatformID != "" {
		filter.PlatformID = &query.PlatformID
	}
	if query.From != "" {
		from, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid from timestamp: %s", query.From))
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid to timestamp: %s", query.To))
		}
		filter.To = &to
	}
	return filter, nil
}
