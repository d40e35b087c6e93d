package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	appbilling "github.com/solepos/backend/internal/application/billing"
	appcatalog "github.com/solepos/backend/internal/application/catalog"
	"github.com/solepos/backend/internal/application/identity"
	"github.com/solepos/backend/internal/application/report"
	"github.com/solepos/backend/internal/infrastructure/auth"
	"github.com/solepos/backend/internal/infrastructure/cache"
	"github.com/solepos/backend/internal/infrastructure/config"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"github.com/solepos/backend/internal/infrastructure/migration"
	"github.com/solepos/backend/internal/infrastructure/persistence"
	"github.com/solepos/backend/internal/infrastructure/telemetry"
	"github.com/solepos/backend/internal/interfaces/http/handler"
	"github.com/solepos/backend/internal/interfaces/http/middleware"
	"github.com/solepos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			SolePOS Billing API
//	@version		1.0
//	@description	Point-of-sale billing ledger for a footwear store

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const apiVersion = "v1"

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
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry comes up before anything that traces or meters
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = providers.Logs.Bridge(log)

	log.Info("Starting SolePOS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		db.LogPoolStats(log)
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	migrator, err := migration.New(db.SQL(), cfg.Database.MigrationsPath, log)
	if err != nil {
		log.Fatal("Failed to prepare migrations", zap.Error(err))
	}
	// Closing the migrator would close the shared sql.DB, so it is left open
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-process cache", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Initialize repositories
	txScope := persistence.NewGormTransactionScope(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	profitRepo := persistence.NewGormProfitRepository(db.DB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT)
	revocations := auth.NewRevocationStore(redisClient)
	authService := identity.NewAuthService(adminRepo, jwtService, revocations, log)

	brandService := appcatalog.NewBrandService(brandRepo)
	categoryService := appcatalog.NewCategoryService(categoryRepo)
	productService := appcatalog.NewProductService(txScope, productRepo, brandRepo, categoryRepo, log)
	stockService := appcatalog.NewStockService(stockRepo, productRepo, cfg.Report.LowStockThreshold, log)

	reportService := report.NewReportService(profitRepo, cache.NewReportCache(redisClient, log), cfg.Report.CacheTTL, log)

	ledgerMetrics, err := telemetry.NewLedgerMetrics(providers.Meter.Meter("solepos"), stockService, log)
	if err != nil {
		log.Fatal("Failed to register ledger metrics", zap.Error(err))
	}
	billService := appbilling.NewBillService(txScope, billRepo, log)
	billService.AddListener(reportService)
	billService.AddListener(ledgerMetrics)
	brandService.AddListener(reportService)
	productService.AddListener(reportService)

	if err := categoryService.EnsureDefaults(ctx); err != nil {
		log.Fatal("Failed to seed default categories", zap.Error(err))
	}

	// Setup Gin
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.HTTPMetrics(providers.Meter.Meter("solepos/http"))
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, providers.Tracer.IsEnabled())...)
	engine.Use(
		httpMetrics,
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.Secure(cfg.App.IsProduction()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", handler.NewHealthHandler(db, telemetry.ServiceVersion).Health)

	jwtAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		SkipPaths:   router.PublicPaths("/api/" + apiVersion),
		Logger:      log,
	})
	r := router.NewRouter(engine, router.WithAPIVersion(apiVersion), router.WithMiddleware(jwtAuth))

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Register(router.APIGroups(router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Bills:    handler.NewBillHandler(billService),
		Catalog:  handler.NewCatalogHandler(brandService, categoryService),
		Products: handler.NewProductHandler(productService),
		Stock:    handler.NewStockHandler(stockService),
		Reports:  handler.NewReportHandler(reportService),
	}, loginLimiter.Middleware())...)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
