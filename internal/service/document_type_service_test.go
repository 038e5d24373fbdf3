package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

type stubDocTypeRepo struct {
	types map[string]*models.DocumentType
}

func newStubDocTypeRepo(types ...*models.DocumentType) *stubDocTypeRepo {
	repo := &stubDocTypeRepo{types: make(map[string]*models.DocumentType)}
	for _, t := range types {
		copied := *t
		repo.types[t.ID] = &copied
	}
	return repo
}

func (r *stubDocTypeRepo) Create(ctx context.Context, t *models.DocumentType) error {
	copied := *t
	r.types[t.ID] = &copied
	return nil
}

func (r *stubDocTypeRepo) FindByID(ctx context.Context, id string) (*models.DocumentType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r *stubDocTypeRepo) FindByKey(ctx context.Context, key string) (*models.DocumentType, error) {
	for _, t := range r.types {
		if t.Key == key {
			copied := *t
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubDocTypeRepo) List(ctx context.Context, layer *models.DocumentLayer, includeInactive bool) ([]models.DocumentType, error) {
	var out []models.DocumentType
	for _, t := range r.types {
		if layer != nil && t.Layer != *layer {
			continue
		}
		if !includeInactive && !t.Active {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubDocTypeRepo) Update(ctx context.Context, t *models.DocumentType) error {
	if _, ok := r.types[t.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *t
	r.types[t.ID] = &copied
	return nil
}

func (r *stubDocTypeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.types[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.types, id)
	return nil
}

type stubDocCounter struct {
	counts map[string]int
}

func (c *stubDocCounter) CountByTypeKey(ctx context.Context, typeKey string) (int, error) {
	return c.counts[typeKey], nil
}

type docTypeFixture struct {
	svc     *DocumentTypeService
	repo    *stubDocTypeRepo
	counter *stubDocCounter
	audit   *recordingAuditRepo
}

func newDocTypeFixture(t *testing.T, types ...*models.DocumentType) *docTypeFixture {
	t.Helper()
	repo := newStubDocTypeRepo(types...)
	counter := &stubDocCounter{counts: make(map[string]int)}
	auditRepo := &recordingAuditRepo{}
	audit := NewAuditService(auditRepo, zap.NewNop(), 100)
	svc := NewDocumentTypeService(repo, counter, audit, NewAccessGate(), nil, zap.NewNop())
	return &docTypeFixture{svc: svc, repo: repo, counter: counter, audit: auditRepo}
}

func orgLayerDocType(id, key string, required bool) *models.DocumentType {
	return &models.DocumentType{
		ID:       id,
		Name:     "Business License",
		Key:      key,
		Layer:    models.DocumentLayerOrganization,
		Required: required,
		Active:   true,
	}
}

func TestDocumentTypeOverridePrecedence(t *testing.T) {
	f := newDocTypeFixture(t, orgLayerDocType("dt-1", "business_license", false))
	platAdmin := &models.JWTClaims{UserID: "padmin-1", Role: models.RolePlatformAdmin, PlatformID: strPtr("plat-1")}

	updated, err := f.svc.SetOverride(context.Background(), platAdmin, "dt-1", dto.SetRequirementOverrideRequest{
		ForLayer: "ORGANIZATION", ForLayerID: "org-1", Required: true,
	})
	require.NoError(t, err)

	assert.True(t, updated.IsRequiredFor(models.DocumentLayerOrganization, "org-1"))
	assert.False(t, updated.IsRequiredFor(models.DocumentLayerOrganization, "org-2"))

	resolution, err := f.svc.Resolve(context.Background(), "dt-1", "organization", "org-1")
	require.NoError(t, err)
	assert.True(t, resolution.Required)
	assert.True(t, resolution.Overridden)

	resolution, err = f.svc.Resolve(context.Background(), "dt-1", "organization", "org-2")
	require.NoError(t, err)
	assert.False(t, resolution.Required)
	assert.False(t, resolution.Overridden)
}

func TestDocumentTypeOverrideUniqueness(t *testing.T) {
	f := newDocTypeFixture(t, orgLayerDocType("dt-1", "business_license", false))
	platAdmin := &models.JWTClaims{UserID: "padmin-1", Role: models.RolePlatformAdmin, PlatformID: strPtr("plat-1")}

	for _, required := range []bool{true, false, true} {
		_, err := f.svc.SetOverride(context.Background(), platAdmin, "dt-1", dto.SetRequirementOverrideRequest{
			ForLayer: "ORGANIZATION", ForLayerID: "org-1", Required: required,
		})
		require.NoError(t, err)
	}

	stored, err := f.repo.FindByID(context.Background(), "dt-1")
	require.NoError(t, err)

	matches := 0
	for _, entry := range stored.LayerRequirements {
		if entry.ForLayer == models.DocumentLayerOrganization && entry.ForLayerID == "org-1" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
	assert.True(t, stored.IsRequiredFor(models.DocumentLayerOrganization, "org-1"))
}

func TestDocumentTypeRemoveOverrideRestoresDefault(t *testing.T) {
	f := newDocTypeFixture(t, orgLayerDocType("dt-1", "business_license", true))
	platAdmin := &models.JWTClaims{UserID: "padmin-1", Role: models.RolePlatformAdmin, PlatformID: strPtr("plat-1")}

	_, err := f.svc.SetOverride(context.Background(), platAdmin, "dt-1", dto.SetRequirementOverrideRequest{
		ForLayer: "ORGANIZATION", ForLayerID: "org-1", Required: false,
	})
	require.NoError(t, err)

	updated, err := f.svc.RemoveOverride(context.Background(), platAdmin, "dt-1", dto.RemoveRequirementOverrideRequest{
		ForLayer: "ORGANIZATION", ForLayerID: "org-1",
	})
	require.NoError(t, err)
	assert.True(t, updated.IsRequiredFor(models.DocumentLayerOrganization, "org-1"))
	assert.Empty(t, updated.LayerRequirements)
}

func TestDocumentTypeOverrideRequiresLayerRole(t *testing.T) {
	f := newDocTypeFixture(t, orgLayerDocType("dt-1", "business_license", false))
	orgAdmin := &models.JWTClaims{UserID: "oadmin-1", Role: models.RoleOrgAdmin, OrganizationID: strPtr("org-1")}

	_, err := f.svc.SetOverride(context.Background(), orgAdmin, "dt-1", dto.SetRequirementOverrideRequest{
		ForLayer: "ORGANIZATION", ForLayerID: "org-1", Required: true,
	})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	// the same admin may manage user-layer overrides
	userType := &models.DocumentType{ID: "dt-2", Name: "ID Card", Key: "id_card", Layer: models.DocumentLayerUser, Active: true}
	require.NoError(t, f.repo.Create(context.Background(), userType))
	_, err = f.svc.SetOverride(context.Background(), orgAdmin, "dt-2", dto.SetRequirementOverrideRequest{
		ForLayer: "USER", ForLayerID: "user-1", Required: true,
	})
	assert.NoError(t, err)
}

func TestDocumentTypeDeleteGuard(t *testing.T) {
	f := newDocTypeFixture(t, orgLayerDocType("dt-1", "business_license", false))
	f.counter.counts["business_license"] = 5
	super := &models.JWTClaims{UserID: "super-1", Role: models.RoleSuperAdmin}

	err := f.svc.Delete(context.Background(), super, "dt-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "5")

	f.counter.counts["business_license"] = 0
	require.NoError(t, f.svc.Delete(context.Background(), super, "dt-1"))

	_, err = f.svc.Get(context.Background(), "dt-1")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDocumentTypeCreateRejectsDuplicateKey(t *testing.T) {
	f := newDocTypeFixture(t, orgLayerDocType("dt-1", "business_license", false))
	super := &models.JWTClaims{UserID: "super-1", Role: models.RoleSuperAdmin}

	_, err := f.svc.Create(context.Background(), super, dto.CreateDocumentTypeRequest{
		Name: "Another License", Key: "business_license", Layer: "ORGANIZATION",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
