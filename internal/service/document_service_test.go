package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/storage"
)

type stubDocumentRepo struct {
	docs map[string]*models.Document
}

func (r *stubDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	if r.docs == nil {
		r.docs = make(map[string]*models.Document)
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *stubDocumentRepo) FindByID(ctx context.Context, id string) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *doc
	return &copied, nil
}

func (r *stubDocumentRepo) ListByOwner(ctx context.Context, layer models.DocumentLayer, ownerID string) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range r.docs {
		if doc.OwnerLayer == layer && doc.OwnerID == ownerID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func newDocumentFixture(t *testing.T, docType *models.DocumentType) (*DocumentService, *stubDocumentRepo) {
	t.Helper()
	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	repo := &stubDocumentRepo{}
	typeRepo := newStubDocTypeRepo(docType)
	audit := NewAuditService(&recordingAuditRepo{}, zap.NewNop(), 100)
	svc := NewDocumentService(repo, typeRepo, blobs, signer, audit, NewAccessGate(), zap.NewNop(), 1<<20)
	return svc, repo
}

func licenseDocType() *models.DocumentType {
	return &models.DocumentType{
		ID:               "dt-1",
		Name:             "Business License",
		Key:              "business_license",
		Layer:            models.DocumentLayerOrganization,
		Active:           true,
		MaxSizeBytes:     1024,
		AllowedMimeTypes: models.StringSlice{"application/pdf"},
	}
}

func TestDocumentUploadAndSignedDownload(t *testing.T) {
	svc, _ := newDocumentFixture(t, licenseDocType())
	actor := &models.JWTClaims{UserID: "oadmin-1", Role: models.RoleOrgAdmin}

	doc, err := svc.Upload(context.Background(), actor, UploadDocumentInput{
		TypeKey:    "business_license",
		OwnerLayer: "ORGANIZATION",
		OwnerID:    "org-1",
		FileName:   "license.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  12,
		Content:    strings.NewReader("pdf contents"),
	})
	require.NoError(t, err)
	assert.Equal(t, "business_license", doc.TypeKey)

	token, expiresAt, err := svc.SignedDownloadURL(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	fetched, file, err := svc.OpenByToken(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, doc.ID, fetched.ID)
}

func TestDocumentUploadRejectsOversizeFile(t *testing.T) {
	svc, _ := newDocumentFixture(t, licenseDocType())
	actor := &models.JWTClaims{UserID: "oadmin-1", Role: models.RoleOrgAdmin}

	_, err := svc.Upload(context.Background(), actor, UploadDocumentInput{
		TypeKey:    "business_license",
		OwnerLayer: "ORGANIZATION",
		OwnerID:    "org-1",
		FileName:   "license.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  10_000,
		Content:    strings.NewReader("too big"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDocumentUploadRejectsDisallowedMimeType(t *testing.T) {
	svc, _ := newDocumentFixture(t, licenseDocType())
	actor := &models.JWTClaims{UserID: "oadmin-1", Role: models.RoleOrgAdmin}

	_, err := svc.Upload(context.Background(), actor, UploadDocumentInput{
		TypeKey:    "business_license",
		OwnerLayer: "ORGANIZATION",
		OwnerID:    "org-1",
		FileName:   "license.exe",
		MimeType:   "application/octet-stream",
		SizeBytes:  10,
		Content:    strings.NewReader("nope"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDocumentUploadUnknownTypeIsNotFound(t *testing.T) {
	svc, _ := newDocumentFixture(t, licenseDocType())
	actor := &models.JWTClaims{UserID: "oadmin-1", Role: models.RoleOrgAdmin}

	_, err := svc.Upload(context.Background(), actor, UploadDocumentInput{
		TypeKey:    "missing_type",
		OwnerLayer: "ORGANIZATION",
		OwnerID:    "org-1",
		FileName:   "file.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  10,
		Content:    strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
