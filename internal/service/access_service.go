package service

import (
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	"github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

// roleRank orders roles from least to most privileged. A higher rank
// implies every capability of the ranks below it.
var roleRank = map[models.UserRole]int{
	models.RoleUser:          1,
	models.RoleOrgAdmin:      2,
	models.RolePlatformAdmin: 3,
	models.RoleSuperAdmin:    4,
}

// overrideRoles maps a document layer to the minimum role allowed to set
// or remove requirement overrides at that layer: always the admin of the
// layer directly above the target.
var overrideRoles = map[models.DocumentLayer]models.UserRole{
	models.DocumentLayerPlatform:     models.RoleSuperAdmin,
	models.DocumentLayerOrganization: models.RolePlatformAdmin,
	models.DocumentLayerUser:         models.RoleOrgAdmin,
}

// AccessGate centralises authorisation decisions so handlers and
// services share one set of rules.
type AccessGate struct{}

func NewAccessGate() *AccessGate {
	return &AccessGate{}
}

// HasRole reports whether role meets or exceeds the required role.
func (g *AccessGate) HasRole(role, required models.UserRole) bool {
	return roleRank[role] >= roleRank[required]
}

// Authorize checks the actor holds at least the required role.
func (g *AccessGate) Authorize(actor *models.JWTClaims, required models.UserRole) error {
	if actor == nil {
		return errors.ErrUnauthorized
	}
	if !g.HasRole(actor.Role, required) {
		return errors.ErrForbidden
	}
	return nil
}

// AuthorizePlatform checks the actor may act on behalf of the given
// platform. Super admins act on any platform; platform admins only on
// their own; sibling platforms are always off limits.
func (g *AccessGate) AuthorizePlatform(actor *models.JWTClaims, platformID string) error {
	if actor == nil {
		return errors.ErrUnauthorized
	}
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if !g.HasRole(actor.Role, models.RolePlatformAdmin) {
		return errors.ErrForbidden
	}
	if actor.PlatformID == nil || *actor.PlatformID != platformID {
		return errors.ErrForbidden
	}
	return nil
}

// AuthorizeOrganization checks the actor may act on behalf of the given
// organization. Super and platform admins pass (platform ownership is
// validated by the caller when it holds the organization record); org
// admins only for their own organization.
func (g *AccessGate) AuthorizeOrganization(actor *models.JWTClaims, organizationID string) error {
	if actor == nil {
		return errors.ErrUnauthorized
	}
	if g.HasRole(actor.Role, models.RolePlatformAdmin) {
		return nil
	}
	if !g.HasRole(actor.Role, models.RoleOrgAdmin) {
		return errors.ErrForbidden
	}
	if actor.OrganizationID == nil || *actor.OrganizationID != organizationID {
		return errors.ErrForbidden
	}
	return nil
}

// AuthorizeOverride checks the actor may manage requirement overrides at
// the given layer. Each layer is managed by the admin of the layer above
// the target.
func (g *AccessGate) AuthorizeOverride(actor *models.JWTClaims, layer models.DocumentLayer) error {
	if actor == nil {
		return errors.ErrUnauthorized
	}
	required, ok := overrideRoles[layer]
	if !ok {
		return errors.Clone(errors.ErrValidation, "unknown document layer")
	}
	if !g.HasRole(actor.Role, required) {
		return errors.ErrForbidden
	}
	return nil
}
