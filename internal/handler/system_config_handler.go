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

type systemConfigService interface {
	List(ctx context.Context) ([]dto.SystemConfigItem, error)
	Update(ctx context.Context, actor *models.JWTClaims, req dto.UpdateSystemConfigRequest) (*dto.SystemConfigItem, error)
	BulkUpdate(ctx context.Context, actor *models.JWTClaims, req dto.BulkUpdateSystemConfigRequest) error
}

// SystemConfigHandler exposes the runtime configuration registry.
type SystemConfigHandler struct {
	service systemConfigService
}

// NewSystemConfigHandler creates a new handler.
func NewSystemConfigHandler(svc systemConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{service: svc}
}

// List godoc
// @Summary List configuration entries with effective values
// @Tags SystemConfig
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /config [get]
func (h *SystemConfigHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a single configuration entry with its effective value
// @Tags SystemConfig
// @Produce json
// @Param key path string true "Configuration key"
// @Success 200 {object} response.Envelope
// @Router /config/{key} [get]
func (h *SystemConfigHandler) Get(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	key := c.Param("key")
	for _, item := range items {
		if item.Key == key {
			response.JSON(c, http.StatusOK, item, nil)
			return
		}
	}
	response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown configuration key: "+key))
}

// Update godoc
// @Summary Update a single configuration entry
// @Tags SystemConfig
// @Accept json
// @Produce json
// @Param key path string true "Configuration key"
// @Param payload body dto.UpdateSystemConfigRequest true "New value"
// @Success 200 {object} response.Envelope
// @Router /config/{key} [put]
func (h *SystemConfigHandler) Update(c *gin.Context) {
	var req dto.UpdateSystemConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	req.Key = c.Param("key")

	item, err := h.service.Update(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// BulkUpdate godoc
// @Summary Update multiple configuration entries atomically
// @Tags SystemConfig
// @Accept json
// @Produce json
// @Param payload body dto.BulkUpdateSystemConfigRequest true "Entries to update"
// @Success 200 {object} response.Envelope
// @Router /config [put]
func (h *SystemConfigHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateSystemConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}

	if err := h.service.BulkUpdate(c.Request.Context(), middleware.CurrentUser(c), req); err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
