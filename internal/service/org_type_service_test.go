package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

type stubOrgTypeRepo struct {
	types     map[string]*models.OrganizationType
	listCalls int
}

func newStubOrgTypeRepo(types ...*models.OrganizationType) *stubOrgTypeRepo {
	repo := &stubOrgTypeRepo{types: make(map[string]*models.OrganizationType)}
	for _, t := range types {
		copied := *t
		repo.types[t.ID] = &copied
	}
	return repo
}

func (r *stubOrgTypeRepo) Create(ctx context.Context, t *models.OrganizationType) error {
	copied := *t
	r.types[t.ID] = &copied
	return nil
}

func (r *stubOrgTypeRepo) FindByID(ctx context.Context, id string) (*models.OrganizationType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r *stubOrgTypeRepo) FindByCode(ctx context.Context, code string, scope models.OrgTypeScope, platformID *string) (*models.OrganizationType, error) {
	for _, t := range r.types {
		if t.Code != code || t.Scope != scope {
			continue
		}
		if scope == models.OrgTypeScopePlatform && platformID != nil {
			if t.PlatformID == nil || *t.PlatformID != *platformID {
				continue
			}
		}
		copied := *t
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (r *stubOrgTypeRepo) Update(ctx context.Context, t *models.OrganizationType) error {
	if _, ok := r.types[t.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *t
	r.types[t.ID] = &copied
	return nil
}

func (r *stubOrgTypeRepo) List(ctx context.Context, filter models.OrgTypeFilter) ([]models.OrganizationType, error) {
	r.listCalls++
	var out []models.OrganizationType
	for _, t := range r.types {
		if t.DeletedAt != nil {
			continue
		}
		if len(filter.IDs) > 0 && !containsID(filter.IDs, t.ID) {
			continue
		}
		if filter.Scope != nil && t.Scope != *filter.Scope {
			continue
		}
		if filter.PlatformID != nil && (t.PlatformID == nil || *t.PlatformID != *filter.PlatformID) {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		if !filter.IncludeInactive && !t.Active {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubOrgTypeRepo) Search(ctx context.Context, params models.OrgTypeSearch) ([]models.OrganizationType, error) {
	var out []models.OrganizationType
	needle := strings.ToLower(params.Query)
	for _, t := range r.types {
		if !t.Active || t.DeletedAt != nil {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Code), needle) && !strings.Contains(strings.ToLower(t.Name), needle) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubOrgTypeRepo) ListReviewDue(ctx context.Context, cutoff time.Time) ([]models.OrganizationType, error) {
	var out []models.OrganizationType
	for _, t := range r.types {
		if t.Scope != models.OrgTypeScopePlatform || t.Status != models.OrgTypeStatusActive || t.DeletedAt != nil {
			continue
		}
		if t.LastReviewedAt == nil || t.LastReviewedAt.Before(cutoff) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubOrgTypeRepo) CountSiblingCodes(ctx context.Context, code string, excludePlatformID string) (int, error) {
	count := 0
	for _, t := range r.types {
		if t.Code == code && t.Scope == models.OrgTypeScopePlatform && t.Status == models.OrgTypeStatusActive &&
			t.PlatformID != nil && *t.PlatformID != excludePlatformID {
			count++
		}
	}
	return count, nil
}

func (r *stubOrgTypeRepo) ListMergesInProgress(ctx context.Context) ([]models.OrganizationType, error) {
	var out []models.OrganizationType
	for _, t := range r.types {
		if t.MergeTargetID != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type stubOrgRepo struct {
	counts map[string]int
}

func (r *stubOrgRepo) CountByTypeID(ctx context.Context, typeID string) (int, error) {
	return r.counts[typeID], nil
}

func (r *stubOrgRepo) ReassignType(ctx context.Context, fromTypeID, toTypeID string) (int, error) {
	migrated := r.counts[fromTypeID]
	r.counts[toTypeID] += migrated
	r.counts[fromTypeID] = 0
	return migrated, nil
}

type stubPlatformRepo struct {
	platforms map[string]*models.Platform
}

func (r *stubPlatformRepo) FindByID(ctx context.Context, id string) (*models.Platform, error) {
	p, ok := r.platforms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (r *stubPlatformRepo) ListReferencingType(ctx context.Context, typeID string) ([]models.Platform, error) {
	var result []models.Platform
	for _, p := range r.platforms {
		for _, id := range p.AllowedTypeIDs {
			if id == typeID {
				result = append(result, *p)
				break
			}
		}
	}
	return result, nil
}

func (r *stubPlatformRepo) UpdateAllowedTypes(ctx context.Context, id string, typeIDs models.StringSlice) error {
	p, ok := r.platforms[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.AllowedTypeIDs = typeIDs
	return nil
}

type stubUserRepo struct{}

func (stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Email: id + "@example.com"}, nil
}

type memCacheStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCacheStore() *memCacheStore {
	return &memCacheStore{entries: make(map[string][]byte)}
}

func (s *memCacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *memCacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = payload
	return nil
}

func (s *memCacheStore) DeleteByPattern(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.entries, key)
		}
	}
	return nil
}

type orgTypeFixture struct {
	svc       *OrgTypeService
	repo      *stubOrgTypeRepo
	orgs      *stubOrgRepo
	platforms *stubPlatformRepo
	audit     *recordingAuditRepo
}

func newOrgTypeFixture(t *testing.T, types ...*models.OrganizationType) *orgTypeFixture {
	t.Helper()
	repo := newStubOrgTypeRepo(types...)
	orgs := &stubOrgRepo{counts: make(map[string]int)}
	platforms := &stubPlatformRepo{platforms: make(map[string]*models.Platform)}
	auditRepo := &recordingAuditRepo{}

	metrics := NewMetricsService()
	cache := NewCacheService(newMemCacheStore(), metrics, zap.NewNop(), true, time.Minute)
	audit := NewAuditService(auditRepo, zap.NewNop(), 100)
	config := NewSystemConfigService(newMockConfigRepo(), audit, nil, zap.NewNop())
	notifications := NewNotificationService(nil, "reviews@example.com", 1, 1, zap.NewNop())
	notifications.Start(context.Background())
	t.Cleanup(notifications.Stop)

	svc := NewOrgTypeService(repo, orgs, platforms, stubUserRepo{}, cache, audit, notifications, config, NewAccessGate(), nil, zap.NewNop())
	return &orgTypeFixture{svc: svc, repo: repo, orgs: orgs, platforms: platforms, audit: auditRepo}
}

func superAdmin() *models.JWTClaims {
	return &models.JWTClaims{UserID: "super-1", Role: models.RoleSuperAdmin, Email: "super@example.com"}
}

func platformAdmin(platformID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "padmin-1", Role: models.RolePlatformAdmin, Email: "padmin@example.com", PlatformID: &platformID}
}

func pendingType(id, code, platformID string) *models.OrganizationType {
	return &models.OrganizationType{
		ID:         id,
		Code:       code,
		Name:       strings.ToUpper(code[:1]) + code[1:],
		Category:   "healthcare",
		Scope:      models.OrgTypeScopePlatform,
		PlatformID: &platformID,
		Status:     models.OrgTypeStatusPending,
		CreatedBy:  "padmin-1",
	}
}

func activePlatformType(id, code, platformID string) *models.OrganizationType {
	t := pendingType(id, code, platformID)
	t.Status = models.OrgTypeStatusActive
	t.Active = true
	return t
}

func globalType(id, code string) *models.OrganizationType {
	return &models.OrganizationType{
		ID:       id,
		Code:     code,
		Name:     strings.ToUpper(code[:1]) + code[1:],
		Category: "healthcare",
		Scope:    models.OrgTypeScopeGlobal,
		Status:   models.OrgTypeStatusActive,
		Active:   true,
	}
}

func TestOrgTypeCreateBySuperAdminIsGlobalActive(t *testing.T) {
	f := newOrgTypeFixture(t)

	created, err := f.svc.Create(context.Background(), superAdmin(), dto.CreateOrgTypeRequest{
		Code: "hospital", Name: "Hospital", Category: "healthcare",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeScopeGlobal, created.Scope)
	assert.Equal(t, models.OrgTypeStatusActive, created.Status)
	assert.True(t, created.Active)
	assert.Nil(t, created.PlatformID)
	require.NotNil(t, created.ApprovedBy)
	assert.Equal(t, "super-1", *created.ApprovedBy)
}

func TestOrgTypeCreateByPlatformAdminIsPending(t *testing.T) {
	f := newOrgTypeFixture(t)
	f.platforms.platforms["plat-1"] = &models.Platform{ID: "plat-1", Name: "Acme"}

	created, err := f.svc.Create(context.Background(), platformAdmin("plat-1"), dto.CreateOrgTypeRequest{
		Code: "clinic", Name: "Clinic", Category: "healthcare",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeScopePlatform, created.Scope)
	assert.Equal(t, models.OrgTypeStatusPending, created.Status)
	assert.False(t, created.Active)
	require.NotNil(t, created.PlatformID)
	assert.Equal(t, "plat-1", *created.PlatformID)
}

func TestOrgTypeCreateDuplicateCodeConflicts(t *testing.T) {
	f := newOrgTypeFixture(t, globalType("gt-1", "hospital"))

	_, err := f.svc.Create(context.Background(), superAdmin(), dto.CreateOrgTypeRequest{
		Code: "hospital", Name: "Hospital", Category: "healthcare",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestOrgTypeCreateRejectsBadSlug(t *testing.T) {
	f := newOrgTypeFixture(t)

	_, err := f.svc.Create(context.Background(), superAdmin(), dto.CreateOrgTypeRequest{
		Code: "not a slug!", Name: "Broken", Category: "healthcare",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOrgTypeApprovalStateMachine(t *testing.T) {
	f := newOrgTypeFixture(t, pendingType("ot-1", "clinic", "plat-1"), globalType("gt-1", "hospital"))

	approved, err := f.svc.Approve(context.Background(), superAdmin(), "ot-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeStatusActive, approved.Status)
	assert.True(t, approved.Active)
	require.NotNil(t, approved.ApprovedBy)

	// approve is only legal from pending_approval
	_, err = f.svc.Approve(context.Background(), superAdmin(), "ot-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = f.svc.Reject(context.Background(), superAdmin(), "gt-1", dto.RejectOrgTypeRequest{Reason: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOrgTypeRejectSetsInactiveAndReason(t *testing.T) {
	f := newOrgTypeFixture(t, pendingType("ot-1", "clinic", "plat-1"))

	rejected, err := f.svc.Reject(context.Background(), superAdmin(), "ot-1", dto.RejectOrgTypeRequest{Reason: "duplicate of hospital"})
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeStatusInactive, rejected.Status)
	assert.False(t, rejected.Active)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "duplicate of hospital", *rejected.RejectionReason)
}

func TestOrgTypeApproveRequiresSuperAdmin(t *testing.T) {
	f := newOrgTypeFixture(t, pendingType("ot-1", "clinic", "plat-1"))

	_, err := f.svc.Approve(context.Background(), platformAdmin("plat-1"), "ot-1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestOrgTypeArchiveGuard(t *testing.T) {
	f := newOrgTypeFixture(t, activePlatformType("ot-1", "clinic", "plat-1"))
	f.orgs.counts["ot-1"] = 4

	_, err := f.svc.Archive(context.Background(), superAdmin(), "ot-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "4")

	f.orgs.counts["ot-1"] = 0
	archived, err := f.svc.Archive(context.Background(), superAdmin(), "ot-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeStatusArchived, archived.Status)
	assert.False(t, archived.Active)
	assert.NotNil(t, archived.DeletedAt)
}

func TestOrgTypeMergeReassignsOrganizations(t *testing.T) {
	f := newOrgTypeFixture(t,
		activePlatformType("ot-1", "clinic", "plat-1"),
		globalType("gt-1", "clinic"),
	)
	f.orgs.counts["ot-1"] = 7
	f.platforms.platforms["plat-2"] = &models.Platform{
		ID:             "plat-2",
		Name:           "Other",
		AllowedTypeIDs: models.StringSlice{"ot-1", "ot-x"},
	}

	result, err := f.svc.Promote(context.Background(), superAdmin(), "ot-1", dto.PromoteOrgTypeRequest{MergeWithID: "gt-1"})
	require.NoError(t, err)
	assert.True(t, result.Merged)
	assert.Equal(t, "gt-1", result.MergedIntoID)
	assert.Equal(t, 7, result.MigratedCount)

	source, err := f.repo.FindByID(context.Background(), "ot-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeStatusInactive, source.Status)
	assert.False(t, source.Active)
	assert.Nil(t, source.MergeTargetID)
	assert.Equal(t, 0, f.orgs.counts["ot-1"])
	assert.Equal(t, 7, f.orgs.counts["gt-1"])
	assert.Equal(t, models.StringSlice{"ot-x", "gt-1"}, f.platforms.platforms["plat-2"].AllowedTypeIDs)
}

func TestOrgTypePromoteConflictWithoutMergeTarget(t *testing.T) {
	f := newOrgTypeFixture(t,
		activePlatformType("ot-1", "clinic", "plat-1"),
		globalType("gt-1", "clinic"),
	)

	_, err := f.svc.Promote(context.Background(), superAdmin(), "ot-1", dto.PromoteOrgTypeRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "merge_with_id")
}

func TestOrgTypePromoteInPlace(t *testing.T) {
	f := newOrgTypeFixture(t, activePlatformType("ot-1", "clinic", "plat-1"))

	result, err := f.svc.Promote(context.Background(), superAdmin(), "ot-1", dto.PromoteOrgTypeRequest{})
	require.NoError(t, err)
	assert.False(t, result.Merged)

	promoted, err := f.repo.FindByID(context.Background(), "ot-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeScopeGlobal, promoted.Scope)
	assert.Nil(t, promoted.PlatformID)
	assert.Equal(t, models.OrgTypeStatusActive, promoted.Status)
	assert.True(t, promoted.Active)
}

func TestOrgTypePromoteRejectsGlobalSource(t *testing.T) {
	f := newOrgTypeFixture(t, globalType("gt-1", "hospital"))

	_, err := f.svc.Promote(context.Background(), superAdmin(), "gt-1", dto.PromoteOrgTypeRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOrgTypeBulkReviewCollectsOutcomes(t *testing.T) {
	f := newOrgTypeFixture(t,
		pendingType("ot-1", "clinic", "plat-1"),
		pendingType("ot-2", "lab", "plat-1"),
		globalType("gt-1", "hospital"),
	)

	result, err := f.svc.BulkReview(context.Background(), superAdmin(), dto.BulkReviewRequest{
		TypeIDs: []string{"ot-1", "ot-2", "gt-1", "missing"},
		Action:  "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Approved)
	assert.Equal(t, 0, result.Rejected)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.Failed)
}

func TestOrgTypeListPlatformFilterModes(t *testing.T) {
	catFinance := "finance"
	f := newOrgTypeFixture(t,
		globalType("gt-1", "hospital"),
		globalType("gt-2", "clinic"),
		activePlatformType("ot-1", "lab", "plat-1"),
	)
	f.repo.types["gt-3"] = globalType("gt-3", "bank")
	f.repo.types["gt-3"].Category = catFinance

	// manual allowlist mode: exactly the pinned IDs plus own platform types
	f.platforms.platforms["plat-1"] = &models.Platform{
		ID: "plat-1", Name: "Acme", AllowedTypeIDs: models.StringSlice{"gt-2"},
	}
	types, err := f.svc.List(context.Background(), dto.ListOrgTypesQuery{PlatformID: "plat-1"})
	require.NoError(t, err)
	ids := typeIDs(types)
	assert.ElementsMatch(t, []string{"gt-2", "ot-1"}, ids)

	// auto-filter mode: globals matching the platform category plus own types
	category := "healthcare"
	f.platforms.platforms["plat-2"] = &models.Platform{ID: "plat-2", Name: "Beta", Category: &category}
	types, err = f.svc.List(context.Background(), dto.ListOrgTypesQuery{PlatformID: "plat-2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gt-1", "gt-2"}, typeIDs(types))

	// no category: every global type
	f.platforms.platforms["plat-3"] = &models.Platform{ID: "plat-3", Name: "Gamma"}
	types, err = f.svc.List(context.Background(), dto.ListOrgTypesQuery{PlatformID: "plat-3"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gt-1", "gt-2", "gt-3"}, typeIDs(types))
}

func TestOrgTypeListDefaultsToGlobalOnly(t *testing.T) {
	f := newOrgTypeFixture(t,
		globalType("gt-1", "hospital"),
		activePlatformType("ot-1", "lab", "plat-1"),
	)

	types, err := f.svc.List(context.Background(), dto.ListOrgTypesQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gt-1"}, typeIDs(types))

	all, err := f.svc.List(context.Background(), dto.ListOrgTypesQuery{Scope: "all"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gt-1", "ot-1"}, typeIDs(all))
}

func TestOrgTypeListCacheInvalidation(t *testing.T) {
	f := newOrgTypeFixture(t, pendingType("ot-1", "clinic", "plat-1"), globalType("gt-1", "hospital"))
	f.platforms.platforms["plat-1"] = &models.Platform{ID: "plat-1", Name: "Acme"}

	query := dto.ListOrgTypesQuery{PlatformID: "plat-1"}

	_, err := f.svc.List(context.Background(), query)
	require.NoError(t, err)
	callsAfterFirst := f.repo.listCalls

	// second identical read is served from cache
	_, err = f.svc.List(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, f.repo.listCalls)

	// a lifecycle write invalidates the platform's cached directory
	_, err = f.svc.Approve(context.Background(), superAdmin(), "ot-1")
	require.NoError(t, err)

	types, err := f.svc.List(context.Background(), query)
	require.NoError(t, err)
	assert.Greater(t, f.repo.listCalls, callsAfterFirst)
	assert.Contains(t, typeIDs(types), "ot-1")
}

func TestOrgTypeListScopeCasingSharesCacheEntry(t *testing.T) {
	f := newOrgTypeFixture(t, pendingType("ot-1", "clinic", "plat-1"))

	query := dto.ListOrgTypesQuery{PlatformID: "px", Scope: "ALL"}

	types, err := f.svc.List(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, types)

	// an uppercase scope must still land under the scope=all
	// invalidation glob, otherwise this read would stay stale
	_, err = f.svc.Approve(context.Background(), superAdmin(), "ot-1")
	require.NoError(t, err)

	types, err = f.svc.List(context.Background(), query)
	require.NoError(t, err)
	assert.Contains(t, typeIDs(types), "ot-1")
}

func TestOrgTypeReviewReportFlagsPromotionEligibility(t *testing.T) {
	f := newOrgTypeFixture(t,
		activePlatformType("ot-1", "clinic", "plat-1"),
		activePlatformType("ot-2", "clinic", "plat-2"),
		activePlatformType("ot-3", "clinic", "plat-3"),
		activePlatformType("ot-4", "lab", "plat-1"),
	)

	items, err := f.svc.ReviewReport(context.Background(), superAdmin())
	require.NoError(t, err)
	require.Len(t, items, 4)

	byID := make(map[string]models.OrgTypeReviewItem)
	for _, item := range items {
		byID[item.Type.ID] = item
	}
	// default threshold 3: eligible when at least two other platforms share the code
	assert.True(t, byID["ot-1"].PromotionEligible)
	assert.Equal(t, 2, byID["ot-1"].SiblingCodeCount)
	assert.False(t, byID["ot-4"].PromotionEligible)
}

func TestOrgTypeMarkReviewedClearsReportEntry(t *testing.T) {
	f := newOrgTypeFixture(t, activePlatformType("ot-1", "clinic", "plat-1"))

	items, err := f.svc.ReviewReport(context.Background(), superAdmin())
	require.NoError(t, err)
	require.Len(t, items, 1)

	reviewed, err := f.svc.MarkReviewed(context.Background(), superAdmin(), "ot-1")
	require.NoError(t, err)
	require.NotNil(t, reviewed.LastReviewedAt)

	items, err = f.svc.ReviewReport(context.Background(), superAdmin())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrgTypeMarkReviewedRejectsGlobalScope(t *testing.T) {
	f := newOrgTypeFixture(t, globalType("gt-1", "hospital"))

	_, err := f.svc.MarkReviewed(context.Background(), superAdmin(), "gt-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review cycle")
}

func TestOrgTypeResumeInterruptedMerges(t *testing.T) {
	interrupted := activePlatformType("ot-1", "clinic", "plat-1")
	target := globalType("gt-1", "clinic")
	targetID := target.ID
	interrupted.MergeTargetID = &targetID

	f := newOrgTypeFixture(t, interrupted, target)
	f.orgs.counts["ot-1"] = 3

	resumed, err := f.svc.ResumeInterruptedMerges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)

	source, err := f.repo.FindByID(context.Background(), "ot-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrgTypeStatusInactive, source.Status)
	assert.Nil(t, source.MergeTargetID)
	assert.Equal(t, 3, f.orgs.counts["gt-1"])
}

func typeIDs(types []models.OrganizationType) []string {
	ids := make([]string, 0, len(types))
	for _, t := range types {
		ids = append(ids, t.ID)
	}
	return ids
}
