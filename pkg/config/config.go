package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	OrgTypes  OrgTypesConfig
	Documents DocumentsConfig
	Email     EmailConfig
	Scheduler SchedulerConfig
	Exports   ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig tunes the read-path memoization layer.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// OrgTypesConfig carries process-level defaults for the organization-type
// governance workflow. The persisted system_config table overrides the
// review period and promotion threshold at runtime.
type OrgTypesConfig struct {
	ReviewPeriodDays      int
	AutoApprovalThreshold int
	CustomPlatformTypes   bool
}

// DocumentsConfig controls document upload storage and limits.
type DocumentsConfig struct {
	StorageDir       string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxFileSizeBytes int64
}

// EmailConfig configures the SendGrid delivery channel for governance
// notifications. Delivery is disabled when the API key is empty.
type EmailConfig struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
	ReviewInbox    string
	WorkerCount    int
	MaxRetries     int
}

// SchedulerConfig holds cron expressions for background maintenance jobs.
type SchedulerConfig struct {
	Enabled          bool
	MergeRepairSpec  string
	ReviewReportSpec string
}

// ExportsConfig governs audit-log export rendering.
type ExportsConfig struct {
	StorageDir string
	MaxRows    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.OrgTypes = OrgTypesConfig{
		ReviewPeriodDays:      v.GetInt("ORG_TYPE_REVIEW_PERIOD_DAYS"),
		AutoApprovalThreshold: v.GetInt("ORG_TYPE_AUTO_APPROVAL_THRESHOLD"),
		CustomPlatformTypes:   v.GetBool("ENABLE_CUSTOM_PLATFORM_TYPES"),
	}

	maxDocumentSize := v.GetInt64("DOCUMENTS_MAX_FILE_SIZE")
	if maxDocumentSize <= 0 {
		maxDocumentSize = 10 * 1024 * 1024
	}
	cfg.Documents = DocumentsConfig{
		StorageDir:       v.GetString("DOCUMENTS_STORAGE_DIR"),
		SignedURLSecret:  v.GetString("DOCUMENTS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("DOCUMENTS_SIGNED_URL_TTL"), 30*time.Minute),
		MaxFileSizeBytes: maxDocumentSize,
	}

	cfg.Email = EmailConfig{
		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
		FromAddress:    v.GetString("EMAIL_FROM_ADDRESS"),
		FromName:       v.GetString("EMAIL_FROM_NAME"),
		ReviewInbox:    v.GetString("EMAIL_REVIEW_INBOX"),
		WorkerCount:    v.GetInt("EMAIL_WORKER_COUNT"),
		MaxRetries:     v.GetInt("EMAIL_MAX_RETRIES"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:          v.GetBool("ENABLE_SCHEDULER"),
		MergeRepairSpec:  v.GetString("SCHEDULER_MERGE_REPAIR_SPEC"),
		ReviewReportSpec: v.GetString("SCHEDULER_REVIEW_REPORT_SPEC"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir: v.GetString("EXPORTS_STORAGE_DIR"),
		MaxRows:    v.GetInt("EXPORTS_MAX_ROWS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tenant_admin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("ORG_TYPE_REVIEW_PERIOD_DAYS", 90)
	v.SetDefault("ORG_TYPE_AUTO_APPROVAL_THRESHOLD", 3)
	v.SetDefault("ENABLE_CUSTOM_PLATFORM_TYPES", false)

	v.SetDefault("DOCUMENTS_STORAGE_DIR", "./documents")
	v.SetDefault("DOCUMENTS_SIGNED_URL_SECRET", "dev_documents_secret")
	v.SetDefault("DOCUMENTS_SIGNED_URL_TTL", "30m")
	v.SetDefault("DOCUMENTS_MAX_FILE_SIZE", 10*1024*1024)

	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_FROM_ADDRESS", "noreply@vantora.io")
	v.SetDefault("EMAIL_FROM_NAME", "Vantora Admin")
	v.SetDefault("EMAIL_REVIEW_INBOX", "governance@vantora.io")
	v.SetDefault("EMAIL_WORKER_COUNT", 1)
	v.SetDefault("EMAIL_MAX_RETRIES", 3)

	v.SetDefault("ENABLE_SCHEDULER", false)
	v.SetDefault("SCHEDULER_MERGE_REPAIR_SPEC", "0 */10 * * * *")
	v.SetDefault("SCHEDULER_REVIEW_REPORT_SPEC", "0 0 6 * * *")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_MAX_ROWS", 10000)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
