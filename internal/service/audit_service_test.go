package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

func TestAuditExportCSVAlignsColumnsWithHeaders(t *testing.T) {
	userID := "user-1"
	resourceID := "ot-1"
	repo := &recordingAuditRepo{logs: []*models.AuditLog{{
		UserID:     &userID,
		Action:     models.AuditActionOrgTypeApprove,
		Resource:   "organization_type",
		ResourceID: &resourceID,
		IPAddress:  "10.0.0.1",
		CreatedAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}}}
	svc := NewAuditService(repo, zap.NewNop(), 100)

	payload, contentType, err := svc.Export(context.Background(), dto.ExportAuditLogsQuery{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Timestamp", "User", "Action", "Resource", "Resource ID", "IP Address"}, records[0])
	assert.Equal(t, []string{
		"2026-03-14T09:00:00Z", "user-1", models.AuditActionOrgTypeApprove,
		"organization_type", "ot-1", "10.0.0.1",
	}, records[1])
}

func TestAuditExportRejectsUnknownFormat(t *testing.T) {
	svc := NewAuditService(&recordingAuditRepo{}, zap.NewNop(), 100)

	_, _, err := svc.Export(context.Background(), dto.ExportAuditLogsQuery{Format: "xlsx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv or pdf")
}
