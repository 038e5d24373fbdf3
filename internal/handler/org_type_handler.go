package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/middleware"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/response"
)

type orgTypeService interface {
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateOrgTypeRequest) (*models.OrganizationType, error)
	Approve(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error)
	Reject(ctx context.Context, actor *models.JWTClaims, id string, req dto.RejectOrgTypeRequest) (*models.OrganizationType, error)
	BulkReview(ctx context.Context, actor *models.JWTClaims, req dto.BulkReviewRequest) (*dto.BulkReviewResult, error)
	Archive(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error)
	Promote(ctx context.Context, actor *models.JWTClaims, id string, req dto.PromoteOrgTypeRequest) (*dto.PromoteOrgTypeResult, error)
	List(ctx context.Context, query dto.ListOrgTypesQuery) ([]models.OrganizationType, error)
	Search(ctx context.Context, query dto.SearchOrgTypesQuery) ([]models.OrganizationType, error)
	ReviewReport(ctx context.Context, actor *models.JWTClaims) ([]models.OrgTypeReviewItem, error)
	MarkReviewed(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error)
}

// OrgTypeHandler wires HTTP endpoints to the organization-type service.
type OrgTypeHandler struct {
	service orgTypeService
}

// NewOrgTypeHandler creates a new handler.
func NewOrgTypeHandler(svc orgTypeService) *OrgTypeHandler {
	return &OrgTypeHandler{service: svc}
}

// List godoc
// @Summary List organization types
// @Description Directory read path with platform allowlist and category filter modes
// @Tags OrganizationTypes
// @Produce json
// @Param platform_id query string false "Platform id"
// @Param category query string false "Category filter"
// @Param scope query string false "global, platform or all"
// @Param include_inactive query bool false "Include inactive types"
// @Success 200 {object} response.Envelope
// @Router /org-types [get]
func (h *OrgTypeHandler) List(c *gin.Context) {
	var query dto.ListOrgTypesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	types, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// Search godoc
// @Summary Search organization types
// @Tags OrganizationTypes
// @Produce json
// @Param q query string false "Substring over code, name and description"
// @Param limit query int false "Result cap (default 20, max 100)"
// @Success 200 {object} response.Envelope
// @Router /org-types/search [get]
func (h *OrgTypeHandler) Search(c *gin.Context) {
	var query dto.SearchOrgTypesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	types, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// Create godoc
// @Summary Propose or create an organization type
// @Tags OrganizationTypes
// @Accept json
// @Produce json
// @Param payload body dto.CreateOrgTypeRequest true "Organization type payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /org-types [post]
func (h *OrgTypeHandler) Create(c *gin.Context) {
	var req dto.CreateOrgTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid organization type payload"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Approve godoc
// @Summary Approve a pending organization type
// @Tags OrganizationTypes
// @Produce json
// @Param id path string true "Organization type id"
// @Success 200 {object} response.Envelope
// @Router /org-types/{id}/approve [post]
func (h *OrgTypeHandler) Approve(c *gin.Context) {
	approved, err := h.service.Approve(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, approved, nil)
}

// Reject godoc
// @Summary Reject a pending organization type
// @Tags OrganizationTypes
// @Accept json
// @Produce json
// @Param id path string true "Organization type id"
// @Param payload body dto.RejectOrgTypeRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Router /org-types/{id}/reject [post]
func (h *OrgTypeHandler) Reject(c *gin.Context) {
	var req dto.RejectOrgTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
		return
	}

	rejected, err := h.service.Reject(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rejected, nil)
}

// Archive godoc
// @Summary Archive an unused organization type
// @Tags OrganizationTypes
// @Produce json
// @Param id path string true "Organization type id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /org-types/{id}/archive [post]
func (h *OrgTypeHandler) Archive(c *gin.Context) {
	archived, err := h.service.Archive(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, archived, nil)
}

// Promote godoc
// @Summary Promote a platform type to global scope
// @Tags OrganizationTypes
// @Accept json
// @Produce json
// @Param id path string true "Organization type id"
// @Param payload body dto.PromoteOrgTypeRequest false "Optional merge target"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /org-types/{id}/promote [post]
func (h *OrgTypeHandler) Promote(c *gin.Context) {
	var req dto.PromoteOrgTypeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid promotion payload"))
			return
		}
	}

	result, err := h.service.Promote(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// BulkReview godoc
// @Summary Bulk approve or reject pending organization types
// @Tags OrganizationTypes
// @Accept json
// @Produce json
// @Param payload body dto.BulkReviewRequest true "Bulk review payload"
// @Success 200 {object} response.Envelope
// @Router /org-types/bulk [post]
func (h *OrgTypeHandler) BulkReview(c *gin.Context) {
	var req dto.BulkReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk review payload"))
		return
	}

	result, err := h.service.BulkReview(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Review godoc
// @Summary List platform types due for governance review
// @Tags OrganizationTypes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /org-types/review [get]
func (h *OrgTypeHandler) Review(c *gin.Context) {
	items, err := h.service.ReviewReport(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// MarkReviewed godoc
// @Summary Record a completed governance review for a platform type
// @Tags OrganizationTypes
// @Produce json
// @Param id path string true "Organization type id"
// @Success 200 {object} response.Envelope
// @Router /org-types/{id}/mark-reviewed [post]
func (h *OrgTypeHandler) MarkReviewed(c *gin.Context) {
	reviewed, err := h.service.MarkReviewed(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviewed, nil)
}
