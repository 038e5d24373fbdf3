package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
	"github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestAccessGateAuthorize(t *testing.T) {
	gate := NewAccessGate()

	err := gate.Authorize(&models.JWTClaims{Role: models.RoleSuperAdmin}, models.RolePlatformAdmin)
	assert.NoError(t, err)

	err = gate.Authorize(&models.JWTClaims{Role: models.RoleUser}, models.RoleOrgAdmin)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	err = gate.Authorize(nil, models.RoleUser)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestAccessGateAuthorizePlatformRejectsSiblings(t *testing.T) {
	gate := NewAccessGate()

	super := &models.JWTClaims{Role: models.RoleSuperAdmin}
	assert.NoError(t, gate.AuthorizePlatform(super, "plat-1"))

	owner := &models.JWTClaims{Role: models.RolePlatformAdmin, PlatformID: strPtr("plat-1")}
	assert.NoError(t, gate.AuthorizePlatform(owner, "plat-1"))

	sibling := &models.JWTClaims{Role: models.RolePlatformAdmin, PlatformID: strPtr("plat-2")}
	assert.ErrorIs(t, gate.AuthorizePlatform(sibling, "plat-1"), errors.ErrForbidden)

	orgAdmin := &models.JWTClaims{Role: models.RoleOrgAdmin, PlatformID: strPtr("plat-1")}
	assert.ErrorIs(t, gate.AuthorizePlatform(orgAdmin, "plat-1"), errors.ErrForbidden)
}

func TestAccessGateAuthorizeOrganization(t *testing.T) {
	gate := NewAccessGate()

	platAdmin := &models.JWTClaims{Role: models.RolePlatformAdmin, PlatformID: strPtr("plat-1")}
	assert.NoError(t, gate.AuthorizeOrganization(platAdmin, "org-1"))

	owner := &models.JWTClaims{Role: models.RoleOrgAdmin, OrganizationID: strPtr("org-1")}
	assert.NoError(t, gate.AuthorizeOrganization(owner, "org-1"))

	sibling := &models.JWTClaims{Role: models.RoleOrgAdmin, OrganizationID: strPtr("org-2")}
	assert.ErrorIs(t, gate.AuthorizeOrganization(sibling, "org-1"), errors.ErrForbidden)

	user := &models.JWTClaims{Role: models.RoleUser}
	assert.ErrorIs(t, gate.AuthorizeOrganization(user, "org-1"), errors.ErrForbidden)
}

func TestAccessGateAuthorizeOverrideLayerLadder(t *testing.T) {
	gate := NewAccessGate()

	super := &models.JWTClaims{Role: models.RoleSuperAdmin}
	platAdmin := &models.JWTClaims{Role: models.RolePlatformAdmin, PlatformID: strPtr("plat-1")}
	orgAdmin := &models.JWTClaims{Role: models.RoleOrgAdmin, OrganizationID: strPtr("org-1")}
	user := &models.JWTClaims{Role: models.RoleUser}

	// platform-layer overrides are super admin only
	assert.NoError(t, gate.AuthorizeOverride(super, models.DocumentLayerPlatform))
	assert.ErrorIs(t, gate.AuthorizeOverride(platAdmin, models.DocumentLayerPlatform), errors.ErrForbidden)

	// organization layer needs at least a platform admin
	assert.NoError(t, gate.AuthorizeOverride(platAdmin, models.DocumentLayerOrganization))
	assert.ErrorIs(t, gate.AuthorizeOverride(orgAdmin, models.DocumentLayerOrganization), errors.ErrForbidden)

	// user layer needs at least an organization admin
	assert.NoError(t, gate.AuthorizeOverride(orgAdmin, models.DocumentLayerUser))
	assert.ErrorIs(t, gate.AuthorizeOverride(user, models.DocumentLayerUser), errors.ErrForbidden)
}
