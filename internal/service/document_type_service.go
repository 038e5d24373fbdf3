package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

type documentTypeRepository interface {
	Create(ctx context.Context, t *models.DocumentType) error
	FindByID(ctx context.Context, id string) (*models.DocumentType, error)
	FindByKey(ctx context.Context, key string) (*models.DocumentType, error)
	List(ctx context.Context, layer *models.DocumentLayer, includeInactive bool) ([]models.DocumentType, error)
	Update(ctx context.Context, t *models.DocumentType) error
	Delete(ctx context.Context, id string) error
}

type documentCounter interface {
	CountByTypeKey(ctx context.Context, typeKey string) (int, error)
}

// DocumentTypeService manages document-type definitions and their
// per-entity requirement overrides.
type DocumentTypeService struct {
	repo      documentTypeRepository
	documents documentCounter
	audit     *AuditService
	gate      *AccessGate
	validator *validator.Validate
	logger    *zap.Logger
}

func NewDocumentTypeService(repo documentTypeRepository, documents documentCounter, audit *AuditService, gate *AccessGate, validate *validator.Validate, logger *zap.Logger) *DocumentTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if gate == nil {
		gate = NewAccessGate()
	}
	return &DocumentTypeService{
		repo:      repo,
		documents: documents,
		audit:     audit,
		gate:      gate,
		validator: validate,
		logger:    logger,
	}
}

// Create defines a new document type. The key is globally unique.
func (s *DocumentTypeService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateDocumentTypeRequest) (*models.DocumentType, error) {
	layer := models.DocumentLayer(req.Layer)
	if err := s.gate.AuthorizeOverride(actor, layer); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document type payload")
	}

	key := strings.ToLower(strings.TrimSpace(req.Key))
	if _, err := s.repo.FindByKey(ctx, key); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("document type key %q already exists", key))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check key uniqueness")
	}

	docType := &models.DocumentType{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(req.Name),
		Key:               key,
		Layer:             layer,
		Required:          req.Required,
		Active:            true,
		SortOrder:         req.SortOrder,
		MaxSizeBytes:      req.MaxSizeBytes,
		AllowedMimeTypes:  models.StringSlice(req.AllowedMimeTypes),
		LayerRequirements: models.LayerRequirementList{},
	}
	if req.Description != "" {
		desc := req.Description
		docType.Description = &desc
	}

	if err := s.repo.Create(ctx, docType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create document type")
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionDocTypeCreate,
		Resource:   "document_type",
		ResourceID: docType.ID,
		Details:    map[string]string{"key": docType.Key, "layer": string(docType.Layer)},
	})

	return docType, nil
}

// Update modifies mutable fields of a document type.
func (s *DocumentTypeService) Update(ctx context.Context, actor *models.JWTClaims, id string, req dto.UpdateDocumentTypeRequest) (*models.DocumentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document type payload")
	}
	docType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeOverride(actor, docType.Layer); err != nil {
		return nil, err
	}

	if req.Name != nil {
		docType.Name = strings.TrimSpace(*req.Name)
	}
	if req.Required != nil {
		docType.Required = *req.Required
	}
	if req.Description != nil {
		docType.Description = req.Description
	}
	if req.Active != nil {
		docType.Active = *req.Active
	}
	if req.SortOrder != nil {
		docType.SortOrder = *req.SortOrder
	}
	if req.MaxSizeBytes != nil {
		docType.MaxSizeBytes = *req.MaxSizeBytes
	}
	if req.AllowedMimeTypes != nil {
		docType.AllowedMimeTypes = models.StringSlice(req.AllowedMimeTypes)
	}

	if err := s.persist(ctx, docType); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionDocTypeUpdate,
		Resource:   "document_type",
		ResourceID: docType.ID,
		Details:    map[string]string{"key": docType.Key},
	})

	return docType, nil
}

// Delete removes a document type. Types with dependent documents cannot
// be deleted; the conflict names the dependent count.
func (s *DocumentTypeService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	docType, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeOverride(actor, docType.Layer); err != nil {
		return err
	}

	dependents, err := s.documents.CountByTypeKey(ctx, docType.Key)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count dependent documents")
	}
	if dependents > 0 {
		return appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("cannot delete: %d document(s) reference this type", dependents))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document type not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document type")
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionDocTypeDelete,
		Resource:   "document_type",
		ResourceID: docType.ID,
		Details:    map[string]string{"key": docType.Key},
	})

	return nil
}

// Get returns a single document type.
func (s *DocumentTypeService) Get(ctx context.Context, id string) (*models.DocumentType, error) {
	return s.load(ctx, id)
}

// List returns document types, optionally filtered by layer.
func (s *DocumentTypeService) List(ctx context.Context, layer string, includeInactive bool) ([]models.DocumentType, error) {
	var layerFilter *models.DocumentLayer
	if layer != "" {
		parsed := models.DocumentLayer(strings.ToUpper(layer))
		if !parsed.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid layer: %s", layer))
		}
		layerFilter = &parsed
	}
	types, err := s.repo.List(ctx, layerFilter, includeInactive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list document types")
	}
	return types, nil
}

// Resolve reports the effective required flag for a target entity.
func (s *DocumentTypeService) Resolve(ctx context.Context, id string, forLayer, forLayerID string) (*dto.RequirementResolution, error) {
	layer := models.DocumentLayer(strings.ToUpper(forLayer))
	if !layer.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid layer: %s", forLayer))
	}
	if forLayerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "for_layer_id is required")
	}
	docType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	_, overridden := docType.LayerRequirements.Find(layer, forLayerID)
	return &dto.RequirementResolution{
		TypeID:     docType.ID,
		Key:        docType.Key,
		ForLayer:   string(layer),
		ForLayerID: forLayerID,
		Required:   docType.IsRequiredFor(layer, forLayerID),
		Overridden: overridden,
	}, nil
}

// SetOverride pins the required flag for one target entity. The list is
// rewritten remove-then-append so at most one entry exists per key.
func (s *DocumentTypeService) SetOverride(ctx context.Context, actor *models.JWTClaims, id string, req dto.SetRequirementOverrideRequest) (*models.DocumentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override payload")
	}
	layer := models.DocumentLayer(req.ForLayer)
	if err := s.gate.AuthorizeOverride(actor, layer); err != nil {
		return nil, err
	}
	docType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	docType.LayerRequirements = docType.LayerRequirements.Set(models.LayerRequirement{
		ForLayer:   layer,
		ForLayerID: req.ForLayerID,
		Required:   req.Required,
		SetBy:      actor.UserID,
		SetAt:      time.Now().UTC(),
	})

	if err := s.persist(ctx, docType); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionDocOverrideSet,
		Resource:   "document_type",
		ResourceID: docType.ID,
		Details: map[string]interface{}{
			"key": docType.Key, "for_layer": req.ForLayer, "for_layer_id": req.ForLayerID, "required": req.Required,
		},
	})

	return docType, nil
}

// RemoveOverride clears the override for one target entity.
func (s *DocumentTypeService) RemoveOverride(ctx context.Context, actor *models.JWTClaims, id string, req dto.RemoveRequirementOverrideRequest) (*models.DocumentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override payload")
	}
	layer := models.DocumentLayer(req.ForLayer)
	if err := s.gate.AuthorizeOverride(actor, layer); err != nil {
		return nil, err
	}
	docType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	docType.LayerRequirements = docType.LayerRequirements.Remove(layer, req.ForLayerID)

	if err := s.persist(ctx, docType); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionDocOverrideClear,
		Resource:   "document_type",
		ResourceID: docType.ID,
		Details: map[string]string{
			"key": docType.Key, "for_layer": req.ForLayer, "for_layer_id": req.ForLayerID,
		},
	})

	return docType, nil
}

func (s *DocumentTypeService) load(ctx context.Context, id string) (*models.DocumentType, error) {
	docType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document type")
	}
	return docType, nil
}

func (s *DocumentTypeService) persist(ctx context.Context, docType *models.DocumentType) error {
	if err := s.repo.Update(ctx, docType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document type not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update document type")
	}
	return nil
}
