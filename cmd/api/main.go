package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vantora-labs/tenant-admin-api/api/swagger"
	"github.com/vantora-labs/tenant-admin-api/internal/handler"
	"github.com/vantora-labs/tenant-admin-api/internal/middleware"
	"github.com/vantora-labs/tenant-admin-api/internal/models"
	"github.com/vantora-labs/tenant-admin-api/internal/repository"
	"github.com/vantora-labs/tenant-admin-api/internal/scheduler"
	"github.com/vantora-labs/tenant-admin-api/internal/service"
	"github.com/vantora-labs/tenant-admin-api/pkg/cache"
	"github.com/vantora-labs/tenant-admin-api/pkg/config"
	"github.com/vantora-labs/tenant-admin-api/pkg/database"
	"github.com/vantora-labs/tenant-admin-api/pkg/email"
	"github.com/vantora-labs/tenant-admin-api/pkg/logger"
	corsmiddleware "github.com/vantora-labs/tenant-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vantora-labs/tenant-admin-api/pkg/middleware/requestid"
	"github.com/vantora-labs/tenant-admin-api/pkg/storage"
)

// @title Tenant Admin API
// @version 1.0.0
// @description Multi-tenant administration core: organization-type governance, document requirements and runtime configuration
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	blobs, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)

	validate := validator.New()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	platformRepo := repository.NewPlatformRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	orgTypeRepo := repository.NewOrganizationTypeRepository(db)
	docTypeRepo := repository.NewDocumentTypeRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	configRepo := repository.NewSystemConfigRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services
	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, logr, cfg.Cache.Enabled, cfg.Cache.TTL)
	gate := service.NewAccessGate()
	auditService := service.NewAuditService(auditRepo, logr, cfg.Exports.MaxRows)
	configService := service.NewSystemConfigService(configRepo, auditService, validate, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "tenant-admin-api",
		Audience:          []string{"tenant-admin"},
	})

	var sender email.Sender = email.NopSender{}
	if cfg.Email.SendGridAPIKey != "" {
		sender = email.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
	}
	notificationService := service.NewNotificationService(sender, cfg.Email.ReviewInbox, cfg.Email.WorkerCount, cfg.Email.MaxRetries, logr)

	orgTypeService := service.NewOrgTypeService(
		orgTypeRepo, orgRepo, platformRepo, userRepo,
		cacheService, auditService, notificationService, configService,
		gate, validate, logr,
	)
	docTypeService := service.NewDocumentTypeService(docTypeRepo, docRepo, auditService, gate, validate, logr)
	docService := service.NewDocumentService(docRepo, docTypeRepo, blobs, signer, auditService, gate, logr, cfg.Documents.MaxFileSizeBytes)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	orgTypeHandler := handler.NewOrgTypeHandler(orgTypeService)
	docTypeHandler := handler.NewDocumentTypeHandler(docTypeService)
	docHandler := handler.NewDocumentHandler(docService)
	configHandler := handler.NewSystemConfigHandler(configService)
	auditHandler := handler.NewAuditHandler(auditService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationService.Start(ctx)
	defer notificationService.Stop()

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(cfg.Scheduler, orgTypeService, notificationService, logr)
		if err != nil {
			logr.Sugar().Fatalw("failed to init scheduler", "error", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	// Signed token carries its own authorization.
	api.GET("/documents/download", docHandler.Download)

	authed := api.Group("", middleware.JWT(authService))
	{
		authed.GET("/org-types", orgTypeHandler.List)
		authed.GET("/org-types/search", orgTypeHandler.Search)

		platformAdmin := authed.Group("", middleware.RequireRole(gate, models.RolePlatformAdmin))
		{
			platformAdmin.POST("/org-types", orgTypeHandler.Create)
		}

		superAdmin := authed.Group("", middleware.RequireRole(gate, models.RoleSuperAdmin))
		{
			superAdmin.POST("/org-types/bulk", orgTypeHandler.BulkReview)
			superAdmin.GET("/org-types/review", orgTypeHandler.Review)
			superAdmin.POST("/org-types/:id/approve", orgTypeHandler.Approve)
			superAdmin.POST("/org-types/:id/reject", orgTypeHandler.Reject)
			superAdmin.POST("/org-types/:id/archive", orgTypeHandler.Archive)
			superAdmin.POST("/org-types/:id/promote", orgTypeHandler.Promote)
			superAdmin.POST("/org-types/:id/mark-reviewed", orgTypeHandler.MarkReviewed)

			superAdmin.GET("/config", configHandler.List)
			superAdmin.PUT("/config", configHandler.BulkUpdate)
			superAdmin.GET("/config/:key", configHandler.Get)
			superAdmin.PUT("/config/:key", configHandler.Update)

			superAdmin.GET("/audit-logs", auditHandler.List)
			superAdmin.GET("/audit-logs/export", auditHandler.Export)
		}

		authed.GET("/document-types", docTypeHandler.List)
		authed.GET("/document-types/:id", docTypeHandler.Get)
		authed.GET("/document-types/:id/required", docTypeHandler.Resolve)
		authed.POST("/document-types", docTypeHandler.Create)
		authed.PUT("/document-types/:id", docTypeHandler.Update)
		authed.DELETE("/document-types/:id", docTypeHandler.Delete)
		authed.PUT("/document-types/:id/requirements", docTypeHandler.SetOverride)
		authed.DELETE("/document-types/:id/requirements", docTypeHandler.RemoveOverride)

		authed.POST("/documents", docHandler.Upload)
		authed.GET("/documents", docHandler.List)
		authed.GET("/documents/:id/url", docHandler.DownloadURL)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
