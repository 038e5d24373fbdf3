package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/middleware"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

type orgTypeServiceMock struct {
	listQuery   dto.ListOrgTypesQuery
	createReq   dto.CreateOrgTypeRequest
	promoteID   string
	promoteReq  dto.PromoteOrgTypeRequest
	actor       *models.JWTClaims
	archiveErr  error
	bulkReq     dto.BulkReviewRequest
	reviewItems []models.OrgTypeReviewItem
	reviewedID  string
}

func (m *orgTypeServiceMock) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateOrgTypeRequest) (*models.OrganizationType, error) {
	m.actor = actor
	m.createReq = req
	return &models.OrganizationType{ID: "created", Code: req.Code}, nil
}

func (m *orgTypeServiceMock) Approve(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error) {
	return &models.OrganizationType{ID: id, Status: models.OrgTypeStatusActive}, nil
}

func (m *orgTypeServiceMock) Reject(ctx context.Context, actor *models.JWTClaims, id string, req dto.RejectOrgTypeRequest) (*models.OrganizationType, error) {
	return &models.OrganizationType{ID: id, Status: models.OrgTypeStatusInactive}, nil
}

func (m *orgTypeServiceMock) BulkReview(ctx context.Context, actor *models.JWTClaims, req dto.BulkReviewRequest) (*dto.BulkReviewResult, error) {
	m.bulkReq = req
	return &dto.BulkReviewResult{Approved: len(req.TypeIDs)}, nil
}

func (m *orgTypeServiceMock) Archive(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error) {
	if m.archiveErr != nil {
		return nil, m.archiveErr
	}
	return &models.OrganizationType{ID: id, Status: models.OrgTypeStatusArchived}, nil
}

func (m *orgTypeServiceMock) Promote(ctx context.Context, actor *models.JWTClaims, id string, req dto.PromoteOrgTypeRequest) (*dto.PromoteOrgTypeResult, error) {
	m.promoteID = id
	m.promoteReq = req
	return &dto.PromoteOrgTypeResult{Merged: req.MergeWithID != ""}, nil
}

func (m *orgTypeServiceMock) List(ctx context.Context, query dto.ListOrgTypesQuery) ([]models.OrganizationType, error) {
	m.listQuery = query
	return []models.OrganizationType{{ID: "ot-1", Code: "school"}}, nil
}

func (m *orgTypeServiceMock) Search(ctx context.Context, query dto.SearchOrgTypesQuery) ([]models.OrganizationType, error) {
	return nil, nil
}

func (m *orgTypeServiceMock) ReviewReport(ctx context.Context, actor *models.JWTClaims) ([]models.OrgTypeReviewItem, error) {
	return m.reviewItems, nil
}

func (m *orgTypeServiceMock) MarkReviewed(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error) {
	m.actor = actor
	m.reviewedID = id
	now := time.Now().UTC()
	return &models.OrganizationType{ID: id, LastReviewedAt: &now}, nil
}

func superAdminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleSuperAdmin, Email: "root@vantora.io"}
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func TestOrgTypeHandlerListParsesQuery(t *testing.T) {
	mockSvc := &orgTypeServiceMock{}
	handler := NewOrgTypeHandler(mockSvc)
	c, w := testContext(t, http.MethodGet, "/org-types?platform_id=plat-1&category=education&scope=all&include_inactive=true", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "plat-1", mockSvc.listQuery.PlatformID)
	require.Equal(t, "education", mockSvc.listQuery.Category)
	require.Equal(t, "all", mockSvc.listQuery.Scope)
	require.True(t, mockSvc.listQuery.IncludeInactive)
}

func TestOrgTypeHandlerCreate(t *testing.T) {
	mockSvc := &orgTypeServiceMock{}
	handler := NewOrgTypeHandler(mockSvc)
	c, w := testContext(t, http.MethodPost, "/org-types", []byte(`{"code":"charter-school","name":"Charter School","category":"education"}`))
	c.Set(middleware.ContextUserKey, superAdminClaims())

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "charter-school", mockSvc.createReq.Code)
	require.NotNil(t, mockSvc.actor)
	require.Equal(t, models.RoleSuperAdmin, mockSvc.actor.Role)
}

func TestOrgTypeHandlerCreateRejectsMalformedBody(t *testing.T) {
	handler := NewOrgTypeHandler(&orgTypeServiceMock{})
	c, w := testContext(t, http.MethodPost, "/org-types", []byte(`{"code":`))
	c.Set(middleware.ContextUserKey, superAdminClaims())

	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrgTypeHandlerPromoteWithoutBody(t *testing.T) {
	mockSvc := &orgTypeServiceMock{}
	handler := NewOrgTypeHandler(mockSvc)
	c, w := testContext(t, http.MethodPost, "/org-types/ot-9/promote", nil)
	c.Params = gin.Params{{Key: "id", Value: "ot-9"}}
	c.Set(middleware.ContextUserKey, superAdminClaims())

	handler.Promote(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ot-9", mockSvc.promoteID)
	require.Empty(t, mockSvc.promoteReq.MergeWithID)
}

func TestOrgTypeHandlerPromotePassesMergeTarget(t *testing.T) {
	mockSvc := &orgTypeServiceMock{}
	handler := NewOrgTypeHandler(mockSvc)
	c, w := testContext(t, http.MethodPost, "/org-types/ot-9/promote", []byte(`{"merge_with_id":"ot-global"}`))
	c.Params = gin.Params{{Key: "id", Value: "ot-9"}}
	c.Set(middleware.ContextUserKey, superAdminClaims())

	handler.Promote(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ot-global", mockSvc.promoteReq.MergeWithID)
}

func TestOrgTypeHandlerArchiveConflictStatus(t *testing.T) {
	mockSvc := &orgTypeServiceMock{
		archiveErr: appErrors.Clone(appErrors.ErrConflict, "type is still used by 4 organizations"),
	}
	handler := NewOrgTypeHandler(mockSvc)
	c, w := testContext(t, http.MethodPost, "/org-types/ot-9/archive", nil)
	c.Params = gin.Params{{Key: "id", Value: "ot-9"}}
	c.Set(middleware.ContextUserKey, superAdminClaims())

	handler.Archive(c)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "4 organizations")
}

func TestOrgTypeHandlerBulkReview(t *testing.T) {
	mockSvc := &orgTypeServiceMock{}
	handler := NewOrgTypeHandler(mockSvc)
	c, w := testContext(t, http.MethodPost, "/org-types/bulk", []byte(`{"type_ids":["a","b"],"action":"approve"}`))
	c.Set(middleware.ContextUserKey, superAdminClaims())

	handler.BulkReview(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"a", "b"}, mockSvc.bulkReq.TypeIDs)
	require.Equal(t, "approve", mockSvc.bulkReq.Action)
}

func TestOrgTypeHandlerMarkReviewed(t *testing.T) {
	mockSvc := &orgTypeServiceMock{}
	handler := NewOrgTypeHandler(mockSvc)
	c, w := testContext(t, http.MethodPost, "/org-types/ot-5/mark-reviewed", nil)
	c.Params = gin.Params{{Key: "id", Value: "ot-5"}}
	c.Set(middleware.ContextUserKey, superAdminClaims())

	handler.MarkReviewed(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ot-5", mockSvc.reviewedID)
	require.NotNil(t, mockSvc.actor)
	require.Contains(t, w.Body.String(), "last_reviewed_at")
}
