package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

var codeSlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

type orgTypeRepository interface {
	Create(ctx context.Context, t *models.OrganizationType) error
	FindByID(ctx context.Context, id string) (*models.OrganizationType, error)
	FindByCode(ctx context.Context, code string, scope models.OrgTypeScope, platformID *string) (*models.OrganizationType, error)
	Update(ctx context.Context, t *models.OrganizationType) error
	List(ctx context.Context, filter models.OrgTypeFilter) ([]models.OrganizationType, error)
	Search(ctx context.Context, params models.OrgTypeSearch) ([]models.OrganizationType, error)
	ListReviewDue(ctx context.Context, cutoff time.Time) ([]models.OrganizationType, error)
	CountSiblingCodes(ctx context.Context, code string, excludePlatformID string) (int, error)
	ListMergesInProgress(ctx context.Context) ([]models.OrganizationType, error)
}

type organizationReassigner interface {
	CountByTypeID(ctx context.Context, typeID string) (int, error)
	ReassignType(ctx context.Context, fromTypeID, toTypeID string) (int, error)
}

type platformFinder interface {
	FindByID(ctx context.Context, id string) (*models.Platform, error)
	ListReferencingType(ctx context.Context, typeID string) ([]models.Platform, error)
	UpdateAllowedTypes(ctx context.Context, id string, typeIDs models.StringSlice) error
}

type userEmailFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// OrgTypeService implements the governance lifecycle and the directory
// read path for organization types.
type OrgTypeService struct {
	repo          orgTypeRepository
	orgs          organizationReassigner
	platforms     platformFinder
	users         userEmailFinder
	cache         *CacheService
	audit         *AuditService
	notifications *NotificationService
	config        *SystemConfigService
	gate          *AccessGate
	validator     *validator.Validate
	logger        *zap.Logger
}

func NewOrgTypeService(
	repo orgTypeRepository,
	orgs organizationReassigner,
	platforms platformFinder,
	users userEmailFinder,
	cache *CacheService,
	audit *AuditService,
	notifications *NotificationService,
	config *SystemConfigService,
	gate *AccessGate,
	validate *validator.Validate,
	logger *zap.Logger,
) *OrgTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if gate == nil {
		gate = NewAccessGate()
	}
	return &OrgTypeService{
		repo:          repo,
		orgs:          orgs,
		platforms:     platforms,
		users:         users,
		cache:         cache,
		audit:         audit,
		notifications: notifications,
		config:        config,
		gate:          gate,
		validator:     validate,
		logger:        logger,
	}
}

// Create proposes a new organization type. A super admin creates a global
// type that is active immediately; a platform admin creates a type scoped
// to their platform which enters the approval queue, unless the platform
// opted into auto approval.
func (s *OrgTypeService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateOrgTypeRequest) (*models.OrganizationType, error) {
	if err := s.gate.Authorize(actor, models.RolePlatformAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid organization type payload")
	}

	code := strings.ToLower(strings.TrimSpace(req.Code))
	if !codeSlugPattern.MatchString(code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "code must be a lowercase slug")
	}

	now := time.Now().UTC()
	orgType := &models.OrganizationType{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.TrimSpace(req.Category),
		Icon:      req.Icon,
		CreatedBy: actor.UserID,
		Active:    false,
	}
	if req.Description != "" {
		desc := req.Description
		orgType.Description = &desc
	}

	if actor.Role == models.RoleSuperAdmin {
		orgType.Scope = models.OrgTypeScopeGlobal
		orgType.Status = models.OrgTypeStatusActive
		orgType.Active = true
		orgType.ApprovedBy = &actor.UserID
		orgType.ApprovedAt = &now
	} else {
		if !s.config.BoolValue(ctx, ConfigKeyCustomPlatformTypes) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "platform-scoped types are disabled")
		}
		if actor.PlatformID == nil {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "platform admin has no platform scope")
		}
		orgType.Scope = models.OrgTypeScopePlatform
		orgType.PlatformID = actor.PlatformID
		orgType.Status = models.OrgTypeStatusPending

		platform, err := s.platforms.FindByID(ctx, *actor.PlatformID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "platform not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load platform")
		}
		if platform.AutoApproveTypes {
			orgType.Status = models.OrgTypeStatusActive
			orgType.Active = true
			orgType.ApprovedBy = &actor.UserID
			orgType.ApprovedAt = &now
		}
	}

	if err := s.ensureCodeFree(ctx, orgType); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, orgType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create organization type")
	}

	s.invalidateDirectory(ctx, orgType)
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionOrgTypeCreate,
		Resource:   "organization_type",
		ResourceID: orgType.ID,
		PlatformID: orgType.PlatformID,
		Details:    map[string]string{"code": orgType.Code, "status": string(orgType.Status)},
	})
	if orgType.IsPending() {
		s.notifications.OrgTypeSubmitted(orgType, actor.Email)
	}

	return orgType, nil
}

// Approve activates a pending type.
func (s *OrgTypeService) Approve(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error) {
	if err := s.gate.Authorize(actor, models.RoleSuperAdmin); err != nil {
		return nil, err
	}
	orgType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !orgType.IsPending() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "organization type is not pending approval")
	}

	now := time.Now().UTC()
	orgType.Status = models.OrgTypeStatusActive
	orgType.Active = true
	orgType.ApprovedBy = &actor.UserID
	orgType.ApprovedAt = &now
	orgType.RejectionReason = nil

	if err := s.persist(ctx, orgType); err != nil {
		return nil, err
	}

	s.invalidateDirectory(ctx, orgType)
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionOrgTypeApprove,
		Resource:   "organization_type",
		ResourceID: orgType.ID,
		PlatformID: orgType.PlatformID,
		Details:    map[string]string{"code": orgType.Code},
	})
	s.notifications.OrgTypeDecision(orgType, s.creatorEmail(ctx, orgType), "approved", "")

	return orgType, nil
}

// Reject declines a pending type with a reason.
func (s *OrgTypeService) Reject(ctx context.Context, actor *models.JWTClaims, id string, req dto.RejectOrgTypeRequest) (*models.OrganizationType, error) {
	if err := s.gate.Authorize(actor, models.RoleSuperAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rejection reason is required")
	}
	orgType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !orgType.IsPending() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "organization type is not pending approval")
	}

	orgType.Status = models.OrgTypeStatusInactive
	orgType.Active = false
	orgType.RejectionReason = &req.Reason

	if err := s.persist(ctx, orgType); err != nil {
		return nil, err
	}

	s.invalidateDirectory(ctx, orgType)
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionOrgTypeReject,
		Resource:   "organization_type",
		ResourceID: orgType.ID,
		PlatformID: orgType.PlatformID,
		Details:    map[string]string{"code": orgType.Code, "reason": req.Reason},
	})
	s.notifications.OrgTypeDecision(orgType, s.creatorEmail(ctx, orgType), "rejected", req.Reason)

	return orgType, nil
}

// BulkReview applies approve or reject across a set of pending types.
// Missing or non-pending items are skipped; other failures are collected
// per item and never abort the batch.
func (s *OrgTypeService) BulkReview(ctx context.Context, actor *models.JWTClaims, req dto.BulkReviewRequest) (*dto.BulkReviewResult, error) {
	if err := s.gate.Authorize(actor, models.RoleSuperAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk review payload")
	}
	if req.Action == "reject" && strings.TrimSpace(req.Reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required for bulk reject")
	}

	result := &dto.BulkReviewResult{Failed: []dto.BulkReviewFailure{}}
	for _, id := range req.TypeIDs {
		orgType, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				result.Skipped++
				continue
			}
			result.Failed = append(result.Failed, dto.BulkReviewFailure{TypeID: id, Error: "failed to load organization type"})
			continue
		}
		if !orgType.IsPending() {
			result.Skipped++
			continue
		}

		var opErr error
		if req.Action == "approve" {
			_, opErr = s.Approve(ctx, actor, id)
			if opErr == nil {
				result.Approved++
			}
		} else {
			_, opErr = s.Reject(ctx, actor, id, dto.RejectOrgTypeRequest{Reason: req.Reason})
			if opErr == nil {
				result.Rejected++
			}
		}
		if opErr != nil {
			result.Failed = append(result.Failed, dto.BulkReviewFailure{TypeID: id, Error: appErrors.FromError(opErr).Message})
		}
	}
	return result, nil
}

// Archive soft-deletes an unused type. Types still referenced by
// organizations cannot be archived.
func (s *OrgTypeService) Archive(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error) {
	if err := s.gate.Authorize(actor, models.RoleSuperAdmin); err != nil {
		return nil, err
	}
	orgType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	inUse, err := s.orgs.CountByTypeID(ctx, orgType.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count type usage")
	}
	if inUse > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("cannot archive: %d organization(s) still use this type", inUse))
	}

	now := time.Now().UTC()
	orgType.Status = models.OrgTypeStatusArchived
	orgType.Active = false
	orgType.DeletedAt = &now

	if err := s.persist(ctx, orgType); err != nil {
		return nil, err
	}

	s.invalidateDirectory(ctx, orgType)
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionOrgTypeArchive,
		Resource:   "organization_type",
		ResourceID: orgType.ID,
		PlatformID: orgType.PlatformID,
		Details:    map[string]string{"code": orgType.Code},
	})

	return orgType, nil
}

// Promote turns a platform-scoped type global: either by merging it into
// an existing global type or by promoting it in place. Merging is two
// phase: the merge marker is journaled on the source first so that an
// interrupted merge can be detected and resumed.
func (s *OrgTypeService) Promote(ctx context.Context, actor *models.JWTClaims, id string, req dto.PromoteOrgTypeRequest) (*dto.PromoteOrgTypeResult, error) {
	if err := s.gate.Authorize(actor, models.RoleSuperAdmin); err != nil {
		return nil, err
	}
	orgType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if orgType.Scope != models.OrgTypeScopePlatform {
		return nil, appErrors.Clone(appErrors.ErrValidation, "organization type is already global")
	}

	target, err := s.resolveMergeTarget(ctx, orgType, req.MergeWithID)
	if err != nil {
		return nil, err
	}

	if target != nil {
		migrated, err := s.merge(ctx, orgType, target)
		if err != nil {
			return nil, err
		}

		s.invalidateAllDirectories(ctx)
		s.audit.Record(ctx, AuditEntry{
			Actor:      actor,
			Action:     models.AuditActionOrgTypeMerge,
			Resource:   "organization_type",
			ResourceID: orgType.ID,
			PlatformID: orgType.PlatformID,
			Details: map[string]interface{}{
				"code": orgType.Code, "merged_into": target.ID, "migrated": migrated,
			},
		})
		s.notifications.OrgTypeDecision(orgType, s.creatorEmail(ctx, orgType), "merged", fmt.Sprintf("merged into global type %s", target.Code))

		return &dto.PromoteOrgTypeResult{Merged: true, MergedIntoID: target.ID, MigratedCount: migrated}, nil
	}

	now := time.Now().UTC()
	orgType.Scope = models.OrgTypeScopeGlobal
	orgType.PlatformID = nil
	orgType.Status = models.OrgTypeStatusActive
	orgType.Active = true
	orgType.ApprovedBy = &actor.UserID
	orgType.ApprovedAt = &now

	if err := s.persist(ctx, orgType); err != nil {
		return nil, err
	}

	s.invalidateAllDirectories(ctx)
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionOrgTypePromote,
		Resource:   "organization_type",
		ResourceID: orgType.ID,
		Details:    map[string]string{"code": orgType.Code},
	})
	s.notifications.OrgTypeDecision(orgType, s.creatorEmail(ctx, orgType), "promoted", "")

	return &dto.PromoteOrgTypeResult{Merged: false, MigratedCount: 0}, nil
}

// List implements the directory read path. Results are cached per
// parameter tuple; lifecycle writes invalidate eagerly.
func (s *OrgTypeService) List(ctx context.Context, query dto.ListOrgTypesQuery) ([]models.OrganizationType, error) {
	scope, err := parseScope(query.Scope)
	if err != nil {
		return nil, err
	}

	// The key must use the normalized scope so invalidation globs match
	// regardless of the caller's casing.
	cacheKey := fmt.Sprintf("org_types:list:platform=%s:category=%s:scope=%s:inactive=%t",
		query.PlatformID, query.Category, normalizeScope(query.Scope), query.IncludeInactive)
	var cached []models.OrganizationType
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	types, err := s.listUncached(ctx, query, scope)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(s.config.IntValue(ctx, ConfigKeyOrgTypeCacheTTL)) * time.Second
	s.cache.Set(ctx, cacheKey, types, ttl)
	return types, nil
}

func (s *OrgTypeService) listUncached(ctx context.Context, query dto.ListOrgTypesQuery, scope *models.OrgTypeScope) ([]models.OrganizationType, error) {
	filter := models.OrgTypeFilter{IncludeInactive: query.IncludeInactive}
	if query.Category != "" {
		category := query.Category
		filter.Category = &category
	}

	// scope=all bypasses every filter mode: full visibility.
	if normalizeScope(query.Scope) == "all" {
		return s.repoList(ctx, filter)
	}

	// Without a platform the directory defaults to global-only types
	// unless an explicit scope filter was given.
	if query.PlatformID == "" {
		if scope != nil {
			filter.Scope = scope
		} else {
			global := models.OrgTypeScopeGlobal
			filter.Scope = &global
		}
		return s.repoList(ctx, filter)
	}

	platform, err := s.platforms.FindByID(ctx, query.PlatformID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "platform not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load platform")
	}

	customEnabled := s.config.BoolValue(ctx, ConfigKeyCustomPlatformTypes)

	var types []models.OrganizationType
	switch {
	case platform.ManualAllowlist():
		allowed := models.OrgTypeFilter{
			IDs:             []string(platform.AllowedTypeIDs),
			IncludeInactive: query.IncludeInactive,
		}
		types, err = s.repoList(ctx, allowed)
	case platform.Category != nil && *platform.Category != "":
		global := models.OrgTypeScopeGlobal
		byCategory := models.OrgTypeFilter{
			Scope:           &global,
			Category:        platform.Category,
			IncludeInactive: query.IncludeInactive,
		}
		types, err = s.repoList(ctx, byCategory)
	default:
		global := models.OrgTypeScopeGlobal
		allGlobal := models.OrgTypeFilter{Scope: &global, IncludeInactive: query.IncludeInactive}
		types, err = s.repoList(ctx, allGlobal)
	}
	if err != nil {
		return nil, err
	}

	if customEnabled {
		platformScope := models.OrgTypeScopePlatform
		own, err := s.repoList(ctx, models.OrgTypeFilter{
			Scope:           &platformScope,
			PlatformID:      &query.PlatformID,
			IncludeInactive: query.IncludeInactive,
		})
		if err != nil {
			return nil, err
		}
		types = mergeUnique(types, own)
	}
	return types, nil
}

// Search performs a substring lookup over code, name and description.
func (s *OrgTypeService) Search(ctx context.Context, query dto.SearchOrgTypesQuery) ([]models.OrganizationType, error) {
	scope, err := parseScope(query.Scope)
	if err != nil {
		return nil, err
	}

	params := models.OrgTypeSearch{Query: query.Query, Limit: query.Limit}
	if query.Category != "" {
		category := query.Category
		params.Category = &category
	}
	params.Scope = scope
	if query.PlatformID != "" {
		platformID := query.PlatformID
		params.PlatformID = &platformID
	}

	types, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search organization types")
	}
	return types, nil
}

// ReviewReport lists platform-scoped types due for governance review.
// The promotion-eligible flag is advisory: it never triggers a transition.
func (s *OrgTypeService) ReviewReport(ctx context.Context, actor *models.JWTClaims) ([]models.OrgTypeReviewItem, error) {
	if err := s.gate.Authorize(actor, models.RoleSuperAdmin); err != nil {
		return nil, err
	}

	reviewDays := s.config.IntValue(ctx, ConfigKeyReviewPeriodDays)
	threshold := s.config.IntValue(ctx, ConfigKeyAutoApprovalThreshold)
	cutoff := time.Now().UTC().AddDate(0, 0, -reviewDays)

	due, err := s.repo.ListReviewDue(ctx, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list review-due types")
	}

	items := make([]models.OrgTypeReviewItem, 0, len(due))
	for _, orgType := range due {
		siblings := 0
		if orgType.PlatformID != nil {
			siblings, err = s.repo.CountSiblingCodes(ctx, orgType.Code, *orgType.PlatformID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sibling codes")
			}
		}
		items = append(items, models.OrgTypeReviewItem{
			Type:              orgType,
			UsageCount:        orgType.UsageCount,
			SiblingCodeCount:  siblings,
			PromotionEligible: siblings >= threshold-1,
		})
	}
	return items, nil
}

// MarkReviewed records a completed governance review so the type drops
// out of the report until the next review period elapses.
func (s *OrgTypeService) MarkReviewed(ctx context.Context, actor *models.JWTClaims, id string) (*models.OrganizationType, error) {
	if err := s.gate.Authorize(actor, models.RoleSuperAdmin); err != nil {
		return nil, err
	}
	orgType, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if orgType.Scope != models.OrgTypeScopePlatform {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only platform-scoped types carry a review cycle")
	}

	now := time.Now().UTC()
	orgType.LastReviewedAt = &now
	if err := s.persist(ctx, orgType); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionOrgTypeReview,
		Resource:   "organization_type",
		ResourceID: orgType.ID,
		PlatformID: orgType.PlatformID,
		Details:    map[string]string{"code": orgType.Code},
	})
	return orgType, nil
}

// ResumeInterruptedMerges finishes merges that carry a journal marker but
// never completed. Reassignment is idempotent so replaying a finished
// phase is safe.
func (s *OrgTypeService) ResumeInterruptedMerges(ctx context.Context) (int, error) {
	pending, err := s.repo.ListMergesInProgress(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interrupted merges")
	}

	resumed := 0
	for i := range pending {
		orgType := pending[i]
		if orgType.MergeTargetID == nil {
			continue
		}
		migrated, err := s.orgs.ReassignType(ctx, orgType.ID, *orgType.MergeTargetID)
		if err != nil {
			s.logger.Error("failed to resume merge",
				zap.String("type_id", orgType.ID), zap.Error(err))
			continue
		}
		targetID := *orgType.MergeTargetID
		s.rewriteAllowlists(ctx, orgType.ID, targetID)
		orgType.Status = models.OrgTypeStatusInactive
		orgType.Active = false
		orgType.MergeTargetID = nil
		if err := s.repo.Update(ctx, &orgType); err != nil {
			s.logger.Error("failed to finalize resumed merge",
				zap.String("type_id", orgType.ID), zap.Error(err))
			continue
		}
		resumed++
		s.logger.Info("resumed interrupted merge",
			zap.String("type_id", orgType.ID),
			zap.String("merged_into", targetID),
			zap.Int("migrated", migrated))
	}
	if resumed > 0 {
		s.invalidateAllDirectories(ctx)
	}
	return resumed, nil
}

func (s *OrgTypeService) merge(ctx context.Context, source, target *models.OrganizationType) (int, error) {
	// Phase one: journal the merge on the source record.
	source.MergeTargetID = &target.ID
	if err := s.persist(ctx, source); err != nil {
		return 0, err
	}

	migrated, err := s.orgs.ReassignType(ctx, source.ID, target.ID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign organizations")
	}

	s.rewriteAllowlists(ctx, source.ID, target.ID)

	// Phase two: deactivate the source and clear the marker. The record is
	// retained for audit history, never deleted.
	source.Status = models.OrgTypeStatusInactive
	source.Active = false
	source.MergeTargetID = nil
	if err := s.persist(ctx, source); err != nil {
		return 0, err
	}
	return migrated, nil
}

// rewriteAllowlists swaps the merged-away type for its target in platform
// allowlists. Best effort: a stale allowlist entry only hides a directory
// row, it cannot corrupt tenant data.
func (s *OrgTypeService) rewriteAllowlists(ctx context.Context, sourceID, targetID string) {
	platforms, err := s.platforms.ListReferencingType(ctx, sourceID)
	if err != nil {
		s.logger.Warn("failed to list platforms referencing merged type",
			zap.String("type_id", sourceID), zap.Error(err))
		return
	}
	for _, platform := range platforms {
		updated := make(models.StringSlice, 0, len(platform.AllowedTypeIDs))
		hasTarget := false
		for _, id := range platform.AllowedTypeIDs {
			if id == targetID {
				hasTarget = true
			}
			if id != sourceID {
				updated = append(updated, id)
			}
		}
		if !hasTarget {
			updated = append(updated, targetID)
		}
		if err := s.platforms.UpdateAllowedTypes(ctx, platform.ID, updated); err != nil {
			s.logger.Warn("failed to rewrite platform allowlist",
				zap.String("platform_id", platform.ID), zap.Error(err))
		}
	}
}

func (s *OrgTypeService) resolveMergeTarget(ctx context.Context, source *models.OrganizationType, mergeWithID string) (*models.OrganizationType, error) {
	if mergeWithID != "" {
		target, err := s.repo.FindByID(ctx, mergeWithID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "merge target not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load merge target")
		}
		if target.Scope != models.OrgTypeScopeGlobal {
			return nil, appErrors.Clone(appErrors.ErrValidation, "merge target must be a global type")
		}
		if target.ID == source.ID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "cannot merge a type into itself")
		}
		return target, nil
	}

	existing, err := s.repo.FindByCode(ctx, source.Code, models.OrgTypeScopeGlobal, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check for conflicting global type")
	}
	// A same-code global type exists but no merge target was named. Force
	// an explicit decision instead of silently merging.
	return nil, appErrors.Clone(appErrors.ErrConflict,
		fmt.Sprintf("a global type with code %q already exists (id %s); supply merge_with_id to merge into it", existing.Code, existing.ID))
}

func (s *OrgTypeService) ensureCodeFree(ctx context.Context, orgType *models.OrganizationType) error {
	_, err := s.repo.FindByCode(ctx, orgType.Code, orgType.Scope, orgType.PlatformID)
	if err == nil {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("code %q already exists in this scope", orgType.Code))
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check code uniqueness")
}

func (s *OrgTypeService) repoList(ctx context.Context, filter models.OrgTypeFilter) ([]models.OrganizationType, error) {
	types, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list organization types")
	}
	return types, nil
}

func (s *OrgTypeService) load(ctx context.Context, id string) (*models.OrganizationType, error) {
	orgType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "organization type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load organization type")
	}
	return orgType, nil
}

func (s *OrgTypeService) persist(ctx context.Context, orgType *models.OrganizationType) error {
	if err := s.repo.Update(ctx, orgType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "organization type not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update organization type")
	}
	return nil
}

func (s *OrgTypeService) creatorEmail(ctx context.Context, orgType *models.OrganizationType) string {
	if s.users == nil || orgType.CreatedBy == "" {
		return ""
	}
	user, err := s.users.FindByID(ctx, orgType.CreatedBy)
	if err != nil {
		s.logger.Warn("failed to resolve creator email",
			zap.String("type_id", orgType.ID), zap.Error(err))
		return ""
	}
	return user.Email
}

// invalidateDirectory drops cached directory entries affected by a write
// to the given type: its platform's listings plus the unscoped views.
func (s *OrgTypeService) invalidateDirectory(ctx context.Context, orgType *models.OrganizationType) {
	if orgType.PlatformID == nil {
		s.invalidateAllDirectories(ctx)
		return
	}
	s.cache.InvalidatePattern(ctx, fmt.Sprintf("org_types:list:platform=%s:*", *orgType.PlatformID))
	s.cache.InvalidatePattern(ctx, "org_types:list:platform=:*")
	s.cache.InvalidatePattern(ctx, "org_types:list:*scope=all*")
}

func (s *OrgTypeService) invalidateAllDirectories(ctx context.Context) {
	s.cache.InvalidatePattern(ctx, "org_types:*")
}

func normalizeScope(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func parseScope(raw string) (*models.OrgTypeScope, error) {
	switch normalizeScope(raw) {
	case "", "all":
		return nil, nil
	case "global":
		scope := models.OrgTypeScopeGlobal
		return &scope, nil
	case "platform":
		scope := models.OrgTypeScopePlatform
		return &scope, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid scope: %s", raw))
	}
}

func mergeUnique(base, extra []models.OrganizationType) []models.OrganizationType {
	seen := make(map[string]struct{}, len(base))
	for _, t := range base {
		seen[t.ID] = struct{}{}
	}
	for _, t := range extra {
		if _, ok := seen[t.ID]; !ok {
			base = append(base, t)
		}
	}
	return base
}
