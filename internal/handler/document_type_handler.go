package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/middleware"
	"github.com/vantora-labs/tenant-admin-api/internal/service"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/response"
)

// DocumentTypeHandler wires HTTP endpoints to the document-type service.
type DocumentTypeHandler struct {
	service *service.DocumentTypeService
}

// NewDocumentTypeHandler creates a new handler.
func NewDocumentTypeHandler(svc *service.DocumentTypeService) *DocumentTypeHandler {
	return &DocumentTypeHandler{service: svc}
}

// List godoc
// @Summary List document types
// @Tags DocumentTypes
// @Produce json
// @Param layer query string false "PLATFORM, ORGANIZATION or USER"
// @Param include_inactive query bool false "Include inactive types"
// @Success 200 {object} response.Envelope
// @Router /document-types [get]
func (h *DocumentTypeHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	types, err := h.service.List(c.Request.Context(), c.Query("layer"), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// Get godoc
// @Summary Get a document type
// @Tags DocumentTypes
// @Produce json
// @Param id path string true "Document type id"
// @Success 200 {object} response.Envelope
// @Router /document-types/{id} [get]
func (h *DocumentTypeHandler) Get(c *gin.Context) {
	docType, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docType, nil)
}

// Create godoc
// @Summary Define a document type
// @Tags DocumentTypes
// @Accept json
// @Produce json
// @Param payload body dto.CreateDocumentTypeRequest true "Document type payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /document-types [post]
func (h *DocumentTypeHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document type payload"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update a document type
// @Tags DocumentTypes
// @Accept json
// @Produce json
// @Param id path string true "Document type id"
// @Param payload body dto.UpdateDocumentTypeRequest true "Mutable fields"
// @Success 200 {object} response.Envelope
// @Router /document-types/{id} [put]
func (h *DocumentTypeHandler) Update(c *gin.Context) {
	var req dto.UpdateDocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document type payload"))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Delete a document type
// @Description Fails with 409 while documents still reference the type
// @Tags DocumentTypes
// @Produce json
// @Param id path string true "Document type id"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /document-types/{id} [delete]
func (h *DocumentTypeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetOverride godoc
// @Summary Set a requirement override for a target entity
// @Tags DocumentTypes
// @Accept json
// @Produce json
// @Param id path string true "Document type id"
// @Param payload body dto.SetRequirementOverrideRequest true "Override payload"
// @Success 200 {object} response.Envelope
// @Router /document-types/{id}/requirements [put]
func (h *DocumentTypeHandler) SetOverride(c *gin.Context) {
	var req dto.SetRequirementOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid override payload"))
		return
	}

	updated, err := h.service.SetOverride(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// RemoveOverride godoc
// @Summary Remove a requirement override for a target entity
// @Tags DocumentTypes
// @Accept json
// @Produce json
// @Param id path string true "Document type id"
// @Param payload body dto.RemoveRequirementOverrideRequest true "Override key"
// @Success 200 {object} response.Envelope
// @Router /document-types/{id}/requirements [delete]
func (h *DocumentTypeHandler) RemoveOverride(c *gin.Context) {
	var req dto.RemoveRequirementOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid override payload"))
		return
	}

	updated, err := h.service.RemoveOverride(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Resolve godoc
// @Summary Resolve the effective required flag for a target entity
// @Tags DocumentTypes
// @Produce json
// @Param id path string true "Document type id"
// @Param for_layer query string true "PLATFORM, ORGANIZATION or USER"
// @Param for_layer_id query string true "Target entity id"
// @Success 200 {object} response.Envelope
// @Router /document-types/{id}/required [get]
func (h *DocumentTypeHandler) Resolve(c *gin.Context) {
	resolution, err := h.service.Resolve(c.Request.Context(), c.Param("id"), c.Query("for_layer"), c.Query("for_layer_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resolution, nil)
}
