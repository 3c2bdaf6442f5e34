package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/application/ads"
	"github.com/pulse/backend/internal/application/analytics"
	appbudget "github.com/pulse/backend/internal/application/budget"
	appconnection "github.com/pulse/backend/internal/application/connection"
	"github.com/pulse/backend/internal/application/identity"
	"github.com/pulse/backend/internal/application/media"
	"github.com/pulse/backend/internal/application/portfolio"
	apptask "github.com/pulse/backend/internal/application/task"
	"github.com/pulse/backend/internal/domain/connection"
	"github.com/pulse/backend/internal/infrastructure/auth"
	"github.com/pulse/backend/internal/infrastructure/cache"
	"github.com/pulse/backend/internal/infrastructure/config"
	"github.com/pulse/backend/internal/infrastructure/event"
	"github.com/pulse/backend/internal/infrastructure/googleads"
	"github.com/pulse/backend/internal/infrastructure/logger"
	"github.com/pulse/backend/internal/infrastructure/persistence"
	"github.com/pulse/backend/internal/infrastructure/scheduler"
	"github.com/pulse/backend/internal/infrastructure/storage"
	"github.com/pulse/backend/internal/infrastructure/telemetry"
	"github.com/pulse/backend/internal/interfaces/http/handler"
	"github.com/pulse/backend/internal/interfaces/http/middleware"
	"github.com/pulse/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Pulse Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	// Route GORM logs through zap
	db.DB.Logger = logger.NewGormLogger(log, gormLogLevel)
	log.Info("Database connected successfully")

	// Telemetry providers. Both return no-op implementations when disabled.
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database query tracing (spans per statement)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingConfig := telemetry.DefaultDBTracingConfig()
		dbTracingConfig.Enabled = true
		tracingPlugin := telemetry.NewDBTracingPlugin(dbTracingConfig, log)
		if err := tracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Redis backs OAuth state storage and the token blacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
	}
	pingCancel()
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))

	stateStore := cache.NewRedisStateStoreWithClient(redisClient, "")
	tokenBlacklist := auth.NewRedisTokenBlacklistWithClient(redisClient)

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	competitorRepo := persistence.NewGormCompetitorRepository(db.DB)
	goalRepo := persistence.NewGormGoalRepository(db.DB)
	connectionRepo := persistence.NewGormConnectionRepository(db.DB)
	platformTypeRepo := persistence.NewGormPlatformTypeRepository(db.DB)
	adsAccountRepo := persistence.NewGormAdsAccountRepository(db.DB)
	accountSyncRepo := persistence.NewGormAccountSyncRepository(db.DB)
	clientAccountRepo := persistence.NewGormClientAccountRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	adGroupRepo := persistence.NewGormAdGroupRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)
	dailyMetricRepo := persistence.NewGormDailyMetricRepository(db.DB)
	freshnessRepo := persistence.NewGormFreshnessRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	spendSnapshotRepo := persistence.NewGormSpendSnapshotRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)

	// Ad platform adapters. A workspace can run without Google Ads credentials
	// in development; the platform just won't be connectable.
	platformRegistry := connection.NewPlatformRegistry()
	gadsAdapter, err := googleads.NewAdapter(&googleads.Config{
		ClientID:        cfg.GoogleAds.ClientID,
		ClientSecret:    cfg.GoogleAds.ClientSecret,
		RedirectURL:     cfg.GoogleAds.RedirectURL,
		DeveloperToken:  cfg.GoogleAds.DeveloperToken,
		LoginCustomerID: cfg.GoogleAds.LoginCustomerID,
		APIVersion:      cfg.GoogleAds.APIVersion,
		TimeoutSeconds:  int(cfg.GoogleAds.RequestTimeout.Seconds()),
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to configure Google Ads adapter", zap.Error(err))
		}
		log.Warn("Google Ads adapter not configured, platform disabled", zap.Error(err))
	} else {
		platformRegistry.Register(gadsAdapter)
		log.Info("Google Ads adapter registered",
			zap.String("api_version", cfg.GoogleAds.APIVersion),
		)
	}

	// Object storage for logo uploads
	var objectStorage media.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("region", cfg.Storage.Region),
		)
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage disabled, logo uploads will return stub URLs")
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identity.NewAuthService(userRepo, tenantRepo, membershipRepo, jwtService, tokenBlacklist, log)
	tenantService := identity.NewTenantService(tenantRepo, userRepo, membershipRepo, log)

	clientService := portfolio.NewClientService(clientRepo, groupRepo, log)
	clientImportService := portfolio.NewClientImportService(clientService, clientRepo, log)
	groupService := portfolio.NewGroupService(groupRepo, clientRepo, log)
	competitorService := portfolio.NewCompetitorService(competitorRepo, clientRepo, log)
	goalService := portfolio.NewGoalService(goalRepo, clientRepo, log)

	oauthService := appconnection.NewOAuthService(platformRegistry, connectionRepo, platformTypeRepo, stateStore, log)
	accountService := appconnection.NewAccountService(
		oauthService, platformRegistry,
		connectionRepo, adsAccountRepo, accountSyncRepo, clientAccountRepo,
		log,
	)

	campaignService := ads.NewCampaignService(campaignRepo, adGroupRepo, snapshotRepo, dailyMetricRepo, tagRepo, clientAccountRepo, log)
	tagService := ads.NewTagService(tagRepo, campaignRepo, log)
	syncService := ads.NewSyncService(
		oauthService, platformRegistry,
		connectionRepo, clientAccountRepo,
		campaignRepo, adGroupRepo, snapshotRepo, dailyMetricRepo, freshnessRepo,
		cfg.Scheduler.FreshnessWindow,
		log,
	)

	analyticsService := analytics.NewAnalyticsService(
		clientRepo, goalRepo, clientAccountRepo,
		campaignRepo, snapshotRepo, dailyMetricRepo,
		alertRepo, log,
	)

	budgetService := appbudget.NewBudgetService(budgetRepo, allocationRepo, clientRepo, groupRepo, log)
	pacingService := appbudget.NewPacingService(
		budgetRepo, alertRepo, spendSnapshotRepo,
		clientRepo, groupRepo, clientAccountRepo,
		campaignRepo, dailyMetricRepo, log,
	)

	taskService := apptask.NewTaskService(taskRepo, log)

	logoService := media.NewLogoService(tenantRepo, clientRepo, objectStorage, media.LogoServiceConfig{
		UploadURLExpiry: cfg.Storage.PresignExpiry,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	}, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Client archived -> deactivate its account links so syncs skip them
	clientArchivedHandler := ads.NewClientArchivedHandler(clientAccountRepo, log)
	eventBus.Subscribe(clientArchivedHandler)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	clientService.SetEventPublisher(eventBus)
	log.Info("Event handlers registered",
		zap.Strings("client_archived_events", clientArchivedHandler.EventTypes()),
	)

	// Business metrics (sync volumes, spend, connection and alert gauges)
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:        meterProvider.Meter("pulse.business"),
		Logger:       log,
		SyncProvider: telemetry.NewGormSyncMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	if cfg.Telemetry.Enabled {
		businessMetrics.StartPeriodicCollection(ctx, telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
		defer businessMetrics.Stop()
	}

	// Background scheduler: nightly metrics sync + daily budget pacing
	var syncQueue handler.SyncQueue
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewSyncExecutor(syncService, pacingService, taskRepo, log)
		sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, executor, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := sched.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		triggerConfig := scheduler.DefaultCronTriggerConfig()
		if hour, minute, err := scheduler.ParseDailyCron(cfg.Scheduler.MetricsCron); err == nil {
			triggerConfig.MetricsSyncHour = hour
			triggerConfig.MetricsSyncMinute = minute
		} else {
			log.Warn("Invalid metrics cron, using default",
				zap.String("cron", cfg.Scheduler.MetricsCron))
		}
		if hour, minute, err := scheduler.ParseDailyCron(cfg.Scheduler.BudgetCron); err == nil {
			triggerConfig.BudgetSnapshotHour = hour
			triggerConfig.BudgetSnapshotMinute = minute
		} else {
			log.Warn("Invalid budget cron, using default",
				zap.String("cron", cfg.Scheduler.BudgetCron))
		}

		cronTrigger := scheduler.NewCronTrigger(triggerConfig, sched, persistence.NewGormTenantProvider(db.DB), log)
		if err := cronTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := cronTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()

		syncQueue = sched
		log.Info("Scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.String("metrics_cron", cfg.Scheduler.MetricsCron),
			zap.String("budget_cron", cfg.Scheduler.BudgetCron),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(tenantService, logoService)
	clientHandler := handler.NewClientHandler(clientService, logoService)
	clientImportHandler := handler.NewClientImportHandler(clientImportService)
	groupHandler := handler.NewGroupHandler(groupService)
	competitorHandler := handler.NewCompetitorHandler(competitorService)
	goalHandler := handler.NewGoalHandler(goalService)
	connectionHandler := handler.NewConnectionHandler(oauthService, accountService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	tagHandler := handler.NewTagHandler(tagService)
	syncHandler := handler.NewSyncHandler(syncService, syncQueue)
	budgetHandler := handler.NewBudgetHandler(budgetService, pacingService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	taskHandler := handler.NewTaskHandler(taskService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
		engine.Use(middleware.Profiling())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, redisClient))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for API routes. The OAuth callback is exempt: it is
	// called by the platform's consent redirect and authenticated by the
	// single-use state token instead.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/connections/oauth/callback",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Identity domain (registration, login, sessions)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/switch-tenant", authHandler.SwitchTenant)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Workspace management
	tenantRoutes := router.NewDomainGroup("tenant", "/tenant")
	tenantRoutes.GET("", tenantHandler.Get)
	tenantRoutes.PUT("", tenantHandler.Update)
	tenantRoutes.POST("/archive", tenantHandler.Archive)
	tenantRoutes.POST("/restore", tenantHandler.Restore)
	tenantRoutes.GET("/members", tenantHandler.ListMembers)
	tenantRoutes.POST("/members", tenantHandler.AddMember)
	tenantRoutes.DELETE("/members/:userId", tenantHandler.RemoveMember)
	tenantRoutes.POST("/logo", tenantHandler.InitiateLogoUpload)
	tenantRoutes.POST("/logo/confirm", tenantHandler.ConfirmLogoUpload)
	tenantRoutes.GET("/goal-defaults", goalHandler.GetTenantDefaults)
	tenantRoutes.PUT("/goal-defaults", goalHandler.SetTenantDefaults)

	// Portfolio domain (clients, competitors, goals)
	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.POST("/import", clientImportHandler.Import)
	clientRoutes.GET("/:id", clientHandler.Get)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.POST("/:id/archive", clientHandler.Archive)
	clientRoutes.POST("/:id/unarchive", clientHandler.Unarchive)
	clientRoutes.POST("/:id/logo", clientHandler.InitiateLogoUpload)
	clientRoutes.POST("/:id/logo/confirm", clientHandler.ConfirmLogoUpload)
	clientRoutes.POST("/:id/competitors", competitorHandler.Create)
	clientRoutes.GET("/:id/competitors", competitorHandler.ListByClient)
	clientRoutes.PUT("/:id/competitors/:competitorId", competitorHandler.Update)
	clientRoutes.DELETE("/:id/competitors/:competitorId", competitorHandler.Delete)
	clientRoutes.GET("/:id/goals", goalHandler.GetClientGoals)
	clientRoutes.PUT("/:id/goals", goalHandler.SetClientGoals)
	clientRoutes.GET("/:id/accounts", connectionHandler.ListClientAccounts)

	// Client groups
	groupRoutes := router.NewDomainGroup("groups", "/groups")
	groupRoutes.POST("", groupHandler.Create)
	groupRoutes.GET("", groupHandler.List)
	groupRoutes.GET("/:id", groupHandler.Get)
	groupRoutes.PUT("/:id", groupHandler.Rename)
	groupRoutes.DELETE("/:id", groupHandler.Delete)
	groupRoutes.POST("/:id/clients", groupHandler.AddClient)
	groupRoutes.DELETE("/:id/clients/:clientId", groupHandler.RemoveClient)

	// Platform connections (OAuth lifecycle, account discovery)
	connectionRoutes := router.NewDomainGroup("connections", "/connections")
	connectionRoutes.GET("/platforms", connectionHandler.ListPlatforms)
	connectionRoutes.POST("/authorize", connectionHandler.Authorize)
	connectionRoutes.GET("/oauth/callback", connectionHandler.Callback)
	connectionRoutes.GET("", connectionHandler.List)
	connectionRoutes.GET("/:id", connectionHandler.Get)
	connectionRoutes.DELETE("/:id", connectionHandler.Disconnect)
	connectionRoutes.POST("/:id/discover", connectionHandler.DiscoverAccounts)
	connectionRoutes.GET("/:id/accounts", connectionHandler.ListAccounts)
	connectionRoutes.GET("/:id/syncs/latest", connectionHandler.GetLatestSync)

	// Account links (client to ad account bindings) and their campaigns
	accountRoutes := router.NewDomainGroup("accounts", "/accounts")
	accountRoutes.POST("/links", connectionHandler.LinkAccount)
	accountRoutes.DELETE("/links/:linkId", connectionHandler.UnlinkAccount)
	accountRoutes.GET("/links/:linkId/campaigns", campaignHandler.ListByAccount)

	// Campaign detail and daily series
	campaignRoutes := router.NewDomainGroup("campaigns", "/campaigns")
	campaignRoutes.GET("/:id", campaignHandler.Get)
	campaignRoutes.GET("/:id/ad-groups", campaignHandler.ListAdGroups)
	campaignRoutes.GET("/:id/daily", campaignHandler.DailySeries)

	// Campaign tags
	tagRoutes := router.NewDomainGroup("tags", "/tags")
	tagRoutes.POST("", tagHandler.Create)
	tagRoutes.GET("", tagHandler.List)
	tagRoutes.PUT("/:id", tagHandler.Update)
	tagRoutes.DELETE("/:id", tagHandler.Delete)
	tagRoutes.POST("/:id/campaigns/:campaignId", tagHandler.Assign)
	tagRoutes.DELETE("/:id/campaigns/:campaignId", tagHandler.Unassign)

	// Metrics sync
	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncRoutes.POST("", syncHandler.TriggerTenantSync)
	syncRoutes.POST("/accounts/:linkId", syncHandler.SyncAccount)
	syncRoutes.GET("/freshness", syncHandler.GetFreshness)

	// Budgets and pacing
	budgetRoutes := router.NewDomainGroup("budgets", "/budgets")
	budgetRoutes.POST("", budgetHandler.Create)
	budgetRoutes.GET("", budgetHandler.List)
	budgetRoutes.GET("/alerts", budgetHandler.ListAlerts)
	budgetRoutes.POST("/alerts/:alertId/acknowledge", budgetHandler.AcknowledgeAlert)
	budgetRoutes.GET("/:id", budgetHandler.Get)
	budgetRoutes.PUT("/:id", budgetHandler.Update)
	budgetRoutes.DELETE("/:id", budgetHandler.Delete)
	budgetRoutes.PUT("/:id/active", budgetHandler.SetActive)
	budgetRoutes.GET("/:id/allocations", budgetHandler.ListAllocations)
	budgetRoutes.POST("/:id/allocations", budgetHandler.AddAllocation)
	budgetRoutes.DELETE("/:id/allocations/:allocationId", budgetHandler.RemoveAllocation)
	budgetRoutes.GET("/:id/pacing", budgetHandler.GetPacing)
	budgetRoutes.GET("/:id/pacing/history", budgetHandler.GetPacingHistory)

	// Analytics
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.GET("/dashboard", analyticsHandler.Dashboard)
	analyticsRoutes.GET("/portfolio", analyticsHandler.PortfolioPerformance)
	analyticsRoutes.GET("/clients/:id", analyticsHandler.ClientPerformance)

	// Background tasks
	taskRoutes := router.NewDomainGroup("tasks", "/tasks")
	taskRoutes.GET("", taskHandler.List)
	taskRoutes.GET("/:id", taskHandler.Get)
	taskRoutes.POST("/:id/cancel", taskHandler.Cancel)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(tenantRoutes).
		Register(clientRoutes).
		Register(groupRoutes).
		Register(connectionRoutes).
		Register(accountRoutes).
		Register(campaignRoutes).
		Register(tagRoutes).
		Register(syncRoutes).
		Register(budgetRoutes).
		Register(analyticsRoutes).
		Register(taskRoutes).
		Register(systemRoutes)

	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports readiness of the database and Redis dependencies
func healthHandler(db *persistence.Database, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		status := http.StatusOK
		dbState := "ok"
		redisState := "ok"

		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check: database unreachable", zap.Error(err))
			dbState = "error"
			status = http.StatusServiceUnavailable
		}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			reqLog.Warn("Health check: redis unreachable", zap.Error(err))
			redisState = "error"
			status = http.StatusServiceUnavailable
		}

		healthy := "healthy"
		if status != http.StatusOK {
			healthy = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":   healthy,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbState,
			"redis":    redisState,
		})
	}
}
