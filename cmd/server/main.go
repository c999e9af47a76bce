package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	purchasingapp "github.com/retailpos/backend/internal/application/purchasing"
	reportapp "github.com/retailpos/backend/internal/application/report"
	returnsapp "github.com/retailpos/backend/internal/application/returns"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	settingsapp "github.com/retailpos/backend/internal/application/settings"
	storefrontapp "github.com/retailpos/backend/internal/application/storefront"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/migration"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/storage"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Retail POS API
//	@version		1.0
//	@description	Point of sale, back office and storefront API
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// Telemetry comes first so the log bridge can be teed into the logger
	otelProviders, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if otelProviders.LogsEnabled() {
		otelCore := otelProviders.ZapCore(logger.ParseLevel(cfg.Log.Level))
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelCore)
		}))
	}

	log.Info("Starting Retail POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Timezone),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	reportDB := db.SQLX()

	// Redis backs token revocation and sale idempotency when enabled
	var (
		blacklist   auth.TokenBlacklist
		idempotency cache.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		idempotency = cache.NewRedisIdempotencyStore(redisClient, "idempotency:sale:")
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memStore := cache.NewInMemoryIdempotencyStore()
		defer func() { _ = memStore.Close() }()
		blacklist = auth.NewInMemoryTokenBlacklist()
		idempotency = memStore
		log.Warn("Redis disabled, session revocation and idempotency keys are local to this instance")
	}

	fileStore, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize upload storage", zap.Error(err))
	}
	uploadsDir := ""
	switch s := fileStore.(type) {
	case *storage.LocalStore:
		uploadsDir = s.Dir()
	case *storage.S3Store:
		if err := s.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	salesReportRepo := persistence.NewSqlxSalesReportRepository(reportDB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Services
	loc := cfg.App.Location()
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	saleService := salesapp.NewSaleService(scope, saleRepo, loc, log)
	saleService.SetIdempotencyStore(idempotency, cfg.Idempotency.TTL)
	returnService := returnsapp.NewReturnService(scope, returnRepo, settingsRepo, log)
	reportService := reportapp.NewReportService(salesReportRepo, saleRepo, loc)
	settingsService := settingsapp.NewSettingsService(settingsRepo, productRepo, fileStore, cfg.Storage.MaxLogoBytes, log)
	vendorService := purchasingapp.NewVendorService(vendorRepo)
	purchaseService := purchasingapp.NewPurchaseService(scope, purchaseRepo, vendorRepo, log)
	shopService := storefrontapp.NewService(productRepo, categoryRepo, settingsRepo, saleService, log)

	meter := otelProviders.Meter("retailpos")
	if otelProviders.MetricsEnabled() {
		salesMetrics, err := telemetry.NewSalesMetrics(meter)
		if err != nil {
			log.Fatal("Failed to register sales metrics", zap.Error(err))
		}
		saleService.SetSalesMetrics(salesMetrics)
		returnService.SetSalesMetrics(salesMetrics)
	}

	created, err := userService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminUsername, cfg.Auth.BootstrapAdminPassword)
	if err != nil {
		log.Fatal("Failed to create bootstrap admin", zap.Error(err))
	}
	if created {
		log.Info("Bootstrap admin created", zap.String("username", cfg.Auth.BootstrapAdminUsername))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	secureCfg := middleware.DefaultSecurityConfig()
	secureCfg.HSTSEnabled = cfg.Cookie.Secure

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.SecureWithConfig(secureCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     otelProviders.TracingEnabled(),
		}),
		middleware.SpanEnricher(),
	)
	if otelProviders.MetricsEnabled() {
		httpMetrics, err := middleware.HTTPMetrics(meter)
		if err != nil {
			log.Fatal("Failed to register HTTP metrics", zap.Error(err))
		}
		engine.Use(httpMetrics)
	}

	var loginGuard gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		globalLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer globalLimiter.Stop()
		engine.Use(middleware.RateLimit(globalLimiter))

		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer loginLimiter.Stop()
		loginGuard = middleware.RateLimit(loginLimiter)
	}

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService, cfg.Cookie),
		Category:   handler.NewCategoryHandler(categoryService),
		Product:    handler.NewProductHandler(productService),
		Sale:       handler.NewSaleHandler(saleService),
		Return:     handler.NewReturnHandler(returnService),
		Report:     handler.NewReportHandler(reportService),
		Settings:   handler.NewSettingsHandler(settingsService),
		Vendor:     handler.NewVendorHandler(vendorService),
		Purchase:   handler.NewPurchaseHandler(purchaseService),
		User:       handler.NewUserHandler(userService),
		Storefront: handler.NewStorefrontHandler(shopService),
		System:     handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, db),
	}
	guards := router.Guards{
		Session: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			CookieName:     cfg.Cookie.Name,
			Logger:         log,
		}),
		Admin: middleware.RequireRole("admin"),
		Login: loginGuard,
	}
	router.Setup(engine, handlers, guards, "/uploads", uploadsDir)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies pending migrations on a dedicated connection; the
// migrate driver closes the handle it is given.
func runMigrations(dsn, path string, log *zap.Logger) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	m, err := migration.New(db, path, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
