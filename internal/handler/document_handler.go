package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vantora-labs/tenant-admin-api/internal/middleware"
	"github.com/vantora-labs/tenant-admin-api/internal/service"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/response"
)

// DocumentHandler exposes upload, listing and signed download endpoints.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// Upload godoc
// @Summary Upload a document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param type_key formData string true "Document type key"
// @Param owner_layer formData string true "PLATFORM, ORGANIZATION or USER"
// @Param owner_id formData string true "Owning entity id"
// @Success 201 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing file upload"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), middleware.CurrentUser(c), service.UploadDocumentInput{
		TypeKey:    c.PostForm("type_key"),
		OwnerLayer: c.PostForm("owner_layer"),
		OwnerID:    c.PostForm("owner_id"),
		FileName:   fileHeader.Filename,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		SizeBytes:  fileHeader.Size,
		Content:    file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// List godoc
// @Summary List documents owned by an entity
// @Tags Documents
// @Produce json
// @Param owner_layer query string true "PLATFORM, ORGANIZATION or USER"
// @Param owner_id query string true "Owning entity id"
// @Success 200 {object} response.Envelope
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.service.ListByOwner(c.Request.Context(), c.Query("owner_layer"), c.Query("owner_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// DownloadURL godoc
// @Summary Issue a short-lived signed download URL
// @Tags Documents
// @Produce json
// @Param id path string true "Document id"
// @Success 200 {object} response.Envelope
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	url, expiresAt, err := h.service.SignedDownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"url":        url,
		"expires_at": expiresAt,
	}, nil)
}

// Download godoc
// @Summary Stream a document via a signed token
// @Tags Documents
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /documents/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, file, err := h.service.OpenByToken(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Header("Content-Type", doc.MimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		// Headers are already out; nothing left to do but log via gin.
		_ = c.Error(err)
	}
}
