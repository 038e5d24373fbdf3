package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/storage"
)

type documentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, layer models.DocumentLayer, ownerID string) ([]models.Document, error)
}

type documentTypeFinder interface {
	FindByKey(ctx context.Context, key string) (*models.DocumentType, error)
}

// UploadDocumentInput carries an upload and its target.
type UploadDocumentInput struct {
	TypeKey    string
	OwnerLayer string
	OwnerID    string
	FileName   string
	MimeType   string
	SizeBytes  int64
	Content    io.Reader
}

// DocumentService stores uploaded documents and hands out signed
// download URLs. Upload constraints come from the document type.
type DocumentService struct {
	repo    documentRepository
	types   documentTypeFinder
	blobs   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	audit   *AuditService
	gate    *AccessGate
	logger  *zap.Logger
	maxSize int64
}

func NewDocumentService(repo documentRepository, types documentTypeFinder, blobs *storage.LocalStorage, signer *storage.SignedURLSigner, audit *AuditService, gate *AccessGate, logger *zap.Logger, maxSizeBytes int64) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gate == nil {
		gate = NewAccessGate()
	}
	return &DocumentService{
		repo:    repo,
		types:   types,
		blobs:   blobs,
		signer:  signer,
		audit:   audit,
		gate:    gate,
		logger:  logger,
		maxSize: maxSizeBytes,
	}
}

// Upload validates the file against its document type and stores it.
func (s *DocumentService) Upload(ctx context.Context, actor *models.JWTClaims, input UploadDocumentInput) (*models.Document, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	ownerLayer := models.DocumentLayer(strings.ToUpper(input.OwnerLayer))
	if !ownerLayer.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid owner layer: %s", input.OwnerLayer))
	}
	if input.OwnerID == "" || input.FileName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "owner_id and file name are required")
	}

	docType, err := s.types.FindByKey(ctx, input.TypeKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document type")
	}
	if !docType.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document type is inactive")
	}

	limit := s.maxSize
	if docType.MaxSizeBytes > 0 {
		limit = docType.MaxSizeBytes
	}
	if limit > 0 && input.SizeBytes > limit {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file exceeds the %d byte limit for this document type", limit))
	}
	if len(docType.AllowedMimeTypes) > 0 && !docType.AllowedMimeTypes.Contains(input.MimeType) {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("mime type %s is not allowed for this document type", input.MimeType))
	}

	id := uuid.NewString()
	relPath := fmt.Sprintf("%s/%s%s", docType.Key, id, filepath.Ext(input.FileName))
	if _, err := s.blobs.SaveStream(relPath, input.Content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}

	doc := &models.Document{
		ID:         id,
		TypeKey:    docType.Key,
		OwnerLayer: ownerLayer,
		OwnerID:    input.OwnerID,
		FileName:   input.FileName,
		FilePath:   relPath,
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
		UploadedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if removeErr := s.blobs.Delete(relPath); removeErr != nil {
			s.logger.Warn("failed to remove orphaned blob", zap.String("path", relPath), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist document")
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionDocumentUpload,
		Resource:   "document",
		ResourceID: doc.ID,
		Details:    map[string]string{"type_key": doc.TypeKey, "owner_id": doc.OwnerID},
	})

	return doc, nil
}

// ListByOwner returns documents uploaded for one owner entity.
func (s *DocumentService) ListByOwner(ctx context.Context, layer, ownerID string) ([]models.Document, error) {
	ownerLayer := models.DocumentLayer(strings.ToUpper(layer))
	if !ownerLayer.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid owner layer: %s", layer))
	}
	docs, err := s.repo.ListByOwner(ctx, ownerLayer, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return docs, nil
}

// SignedDownloadURL issues a short-lived token for downloading a document.
func (s *DocumentService) SignedDownloadURL(ctx context.Context, id string) (string, time.Time, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	token, expiresAt, err := s.signer.Generate(doc.ID, doc.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return token, expiresAt, nil
}

// OpenByToken verifies a signed token and opens the underlying file.
func (s *DocumentService) OpenByToken(ctx context.Context, token string) (*models.Document, *os.File, error) {
	documentID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}

	doc, err := s.load(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download token does not match document")
	}

	file, err := s.blobs.Open(doc.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document")
	}
	return doc, file, nil
}

func (s *DocumentService) load(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	return doc, nil
}
