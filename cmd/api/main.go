package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netch-backend/config"
	_ "netch-backend/docs" // Important for Swagger
	v1 "netch-backend/internal/delivery/http/v1"
	"netch-backend/internal/domain"
	"netch-backend/internal/repository/gateway"
	"netch-backend/internal/repository/mirror"
	"netch-backend/internal/repository/postgres"
	"netch-backend/internal/usecase"
	"netch-backend/pkg/analytics"
	"netch-backend/pkg/auth"
	"netch-backend/pkg/database"
	"netch-backend/pkg/kvstore"
	"netch-backend/pkg/logger"
	"netch-backend/pkg/redis"
	"netch-backend/pkg/security"
	"netch-backend/pkg/security/antivirus"
	"netch-backend/pkg/storage"
	"netch-backend/pkg/validation"
)

// @title           Netch Onboarding API
// @version         1.0
// @description     Onboarding wizard backend: positions, profile and hobbies, with resume upload and submission.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx := context.Background()

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting onboarding backend", "port", cfg.Port)
	defer security.DefaultLogger().Sync() //nolint:errcheck

	// 3. Setup Redis (optional; rate limits and the mirror fall back without it)
	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
	}
	defer redis.Close()

	// 4. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	sqlDB := database.SQLDB(dbPool)
	defer sqlDB.Close()

	if cfg.DBAutoMigrate {
		if err := database.RunMigrations(ctx, sqlDB); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	// 5. Setup Stores
	kv, closeKV, err := kvstore.Open(ctx, kvstore.Options{
		Backend:    cfg.MirrorBackend,
		Redis:      redis.Client(),
		Namespace:  "onboarding",
		TTL:        cfg.MirrorTTL,
		SQLitePath: cfg.MirrorSQLitePath,
	})
	if err != nil {
		logger.Log.Error("Failed to open onboarding mirror", "backend", cfg.MirrorBackend, "error", err)
		os.Exit(1)
	}
	defer closeKV()

	resumeStore, err := storage.Open(ctx, storage.Config{
		Driver:    cfg.StorageDriver,
		LocalDir:  cfg.StorageLocalDir,
		PublicURL: cfg.StoragePublicURL,
		S3: storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
		},
	})
	if err != nil {
		logger.Log.Error("Failed to open resume storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	var uploadsDir string
	if local, ok := resumeStore.(*storage.LocalStore); ok {
		uploadsDir = local.Dir()
	}

	// 6. Setup Analytics
	var sink domain.AnalyticsSink
	var flush func()
	switch {
	case cfg.AnalyticsSink == "redis" && redis.Client() != nil:
		streamSink := analytics.NewRedisStreamSink(redis.Client(), cfg.AnalyticsStream, logger.Log)
		sink, flush = streamSink, streamSink.Flush
	case cfg.AnalyticsSink == "none":
		sink = analytics.NopSink{}
	default:
		sink = analytics.NewLogSink(logger.Log)
	}

	// 7. Setup Repositories & UseCases
	onboardingCfg := domain.DefaultOnboardingConfig()
	onboardingCfg.MaxPositions = cfg.OnboardingMaxPositions
	onboardingCfg.MaxHobbies = cfg.OnboardingMaxHobbies
	onboardingCfg.MaxResumeSize = cfg.OnboardingMaxResumeBytes

	onboardingRepo := postgres.NewOnboardingRepository(sqlDB)
	onboardingUC := usecase.NewOnboardingUsecase(
		onboardingRepo,
		resumeStore,
		security.NewUploadLimiter(redis.Client(), cfg.UploadLimitPerMinute, cfg.UploadLimitPerDay),
		antivirus.New(cfg.ClamAVAddress),
		validation.New(),
		onboardingCfg,
	)

	// Submissions go to a remote API when one is configured, otherwise in-process
	var onboardingGateway domain.OnboardingGateway
	if cfg.OnboardingAPIURL != "" {
		onboardingGateway = gateway.NewHTTPGateway(cfg.OnboardingAPIURL, &http.Client{Timeout: cfg.SubmitTimeout})
	} else {
		onboardingGateway = gateway.NewLocalGateway(onboardingUC)
	}

	submitter := usecase.NewSubmitter(onboardingGateway, cfg.SubmitTimeout)
	wizardUC := usecase.NewOnboardingWizardUsecase(mirror.NewRepository(kv), submitter, sink, onboardingCfg,
		usecase.WithSessionIdleTTL(cfg.SessionIdleTTL))

	// 8. Setup Auth Provider (JWKS)
	// Assuming Supabase URL is like https://xyz.supabase.co
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		OnboardingUC:     onboardingUC,
		WizardUC:         wizardUC,
		HealthUC:         usecase.NewHealthUsecase(sqlDB, redis.Client()),
		OnboardingConfig: onboardingCfg,
		JWKSProvider:     jwksProvider,
		Config:           cfg,
		UploadsDir:       uploadsDir,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	if flush != nil {
		flush()
	}

	logger.Log.Info("Server exiting")
}
