package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vantora-labs/tenant-admin-api/internal/dto"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
)

// Well-known configuration keys. Only registered keys can be read or
// written through the config API.
const (
	ConfigKeyReviewPeriodDays      = "org_type_review_period_days"
	ConfigKeyAutoApprovalThreshold = "org_type_auto_approval_threshold"
	ConfigKeyCustomPlatformTypes   = "enable_custom_platform_types"
	ConfigKeyOrgTypeCacheTTL       = "org_type_cache_ttl_seconds"
)

type configDefinition struct {
	Type        models.SystemConfigType
	Category    string
	Default     string
	Description string
}

var configRegistry = map[string]configDefinition{
	ConfigKeyReviewPeriodDays: {
		Type:        models.SystemConfigTypeInt,
		Category:    "organization_types",
		Default:     "90",
		Description: "Days after creation at which a pending type becomes due for review",
	},
	ConfigKeyAutoApprovalThreshold: {
		Type:        models.SystemConfigTypeInt,
		Category:    "organization_types",
		Default:     "3",
		Description: "Platform count at which a pending type is flagged as promotion eligible",
	},
	ConfigKeyCustomPlatformTypes: {
		Type:        models.SystemConfigTypeBoolean,
		Category:    "organization_types",
		Default:     "true",
		Description: "Whether platform admins may create platform-scoped types",
	},
	ConfigKeyOrgTypeCacheTTL: {
		Type:        models.SystemConfigTypeInt,
		Category:    "caching",
		Default:     "300",
		Description: "TTL in seconds for cached organization type directories",
	},
}

type systemConfigRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.SystemConfig, error)
	Get(ctx context.Context, key string) (*models.SystemConfig, error)
	Upsert(ctx context.Context, cfg *models.SystemConfig) error
	BulkUpsert(ctx context.Context, cfgs []models.SystemConfig) error
}

// SystemConfigService manages the registry-backed configuration store.
// Unpersisted keys fall back to registered defaults.
type SystemConfigService struct {
	repo      systemConfigRepository
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewSystemConfigService(repo systemConfigRepository, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *SystemConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SystemConfigService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns every registered configuration entry, materializing
// defaults for keys that have never been written.
func (s *SystemConfigService) List(ctx context.Context) ([]dto.SystemConfigItem, error) {
	keys := make([]string, 0, len(configRegistry))
	for key := range configRegistry {
		keys = append(keys, key)
	}

	stored, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load configuration")
	}

	byKey := make(map[string]models.SystemConfig, len(stored))
	for _, cfg := range stored {
		byKey[cfg.Key] = cfg
	}

	items := make([]dto.SystemConfigItem, 0, len(configRegistry))
	for key, def := range configRegistry {
		value := def.Default
		if cfg, ok := byKey[key]; ok {
			value = cfg.Value
		}
		items = append(items, dto.SystemConfigItem{
			Key:         key,
			Value:       value,
			Type:        string(def.Type),
			Category:    def.Category,
			Description: def.Description,
		})
	}
	sortConfigItems(items)
	return items, nil
}

// Update validates and persists a single configuration value.
func (s *SystemConfigService) Update(ctx context.Context, actor *models.JWTClaims, req dto.UpdateSystemConfigRequest) (*dto.SystemConfigItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid configuration payload")
	}

	cfg, def, err := s.buildEntry(actor, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist configuration")
	}

	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionConfigUpdate,
		Resource:   "system_config",
		ResourceID: cfg.Key,
		Details:    map[string]string{"key": cfg.Key, "value": cfg.Value},
	})

	return &dto.SystemConfigItem{
		Key:         cfg.Key,
		Value:       cfg.Value,
		Type:        string(def.Type),
		Category:    def.Category,
		Description: def.Description,
	}, nil
}

// BulkUpdate validates every entry before persisting any of them.
func (s *SystemConfigService) BulkUpdate(ctx context.Context, actor *models.JWTClaims, req dto.BulkUpdateSystemConfigRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid configuration payload")
	}

	entries := make([]models.SystemConfig, 0, len(req.Items))
	for _, item := range req.Items {
		cfg, _, err := s.buildEntry(actor, item)
		if err != nil {
			return err
		}
		entries = append(entries, *cfg)
	}

	if err := s.repo.BulkUpsert(ctx, entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist configuration")
	}

	for _, cfg := range entries {
		s.audit.Record(ctx, AuditEntry{
			Actor:      actor,
			Action:     models.AuditActionConfigUpdate,
			Resource:   "system_config",
			ResourceID: cfg.Key,
			Details:    map[string]string{"key": cfg.Key, "value": cfg.Value},
		})
	}
	return nil
}

// IntValue resolves an integer configuration value, falling back to the
// registered default on missing or malformed rows.
func (s *SystemConfigService) IntValue(ctx context.Context, key string) int {
	raw := s.rawValue(ctx, key)
	value, err := strconv.Atoi(raw)
	if err != nil {
		def := configRegistry[key]
		fallback, _ := strconv.Atoi(def.Default)
		s.logger.Warn("malformed int configuration value, using default",
			zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return value
}

// BoolValue resolves a boolean configuration value.
func (s *SystemConfigService) BoolValue(ctx context.Context, key string) bool {
	raw := s.rawValue(ctx, key)
	value, err := strconv.ParseBool(raw)
	if err != nil {
		def := configRegistry[key]
		fallback, _ := strconv.ParseBool(def.Default)
		s.logger.Warn("malformed bool configuration value, using default",
			zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return value
}

func (s *SystemConfigService) rawValue(ctx context.Context, key string) string {
	def, ok := configRegistry[key]
	if !ok {
		return ""
	}
	cfg, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to read configuration, using default",
				zap.String("key", key), zap.Error(err))
		}
		return def.Default
	}
	return cfg.Value
}

func (s *SystemConfigService) buildEntry(actor *models.JWTClaims, req dto.UpdateSystemConfigRequest) (*models.SystemConfig, *configDefinition, error) {
	key := strings.TrimSpace(req.Key)
	def, ok := configRegistry[key]
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown configuration key: %s", key))
	}

	value := strings.TrimSpace(req.Value)
	switch def.Type {
	case models.SystemConfigTypeInt:
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be a non-negative integer", key))
		}
	case models.SystemConfigTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be a boolean", key))
		}
	}

	cfg := &models.SystemConfig{
		Key:         key,
		Value:       value,
		Type:        def.Type,
		Category:    def.Category,
		Description: &def.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	if actor != nil {
		userID := actor.UserID
		cfg.UpdatedBy = &userID
	}
	return cfg, &def, nil
}

func sortConfigItems(items []dto.SystemConfigItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
}
