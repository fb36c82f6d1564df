// Package main provides the main entry point for the AdaptMuse audience and content service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/AdaptMuse/app/handlers"
	"github.com/amirphl/AdaptMuse/app/middleware"
	"github.com/amirphl/AdaptMuse/app/router"
	"github.com/amirphl/AdaptMuse/app/scheduler"
	"github.com/amirphl/AdaptMuse/app/services"
	businessflow "github.com/amirphl/AdaptMuse/business_flow"
	"github.com/amirphl/AdaptMuse/config"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	log       *zap.Logger
	stopFuncs []func()
}

func main() {
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	zl.Info("starting AdaptMuse",
		zap.String("environment", cfg.Deployment.Environment),
		zap.String("version", cfg.Deployment.Version),
		zap.String("commit", cfg.Deployment.CommitHash),
	)

	app, err := initializeApplication(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		serverErr <- app.router.Start(address)
	}()

	select {
	case <-sigChan:
		zl.Info("shutting down gracefully")
	case err := <-serverErr:
		if err != nil {
			zl.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.Shutdown(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}

	zl.Info("server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, zl *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.User{}, &models.Audience{}, &models.Job{}); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	zl.Info("database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Bool("auto_migrate", cfg.AutoMigrate),
	)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// A nil client means caching is disabled.
func initializeCache(cfg config.CacheConfig, zl *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		zl.Info("cache disabled; using in-process token revocation")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	zl.Info("redis connection established", zap.String("addr", opt.Addr), zap.Int("db", cfg.RedisDB))
	return rc, nil
}

// initializeApplication wires repositories, services, flows and handlers
func initializeApplication(cfg *config.ProductionConfig, zl *zap.Logger) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database, zl)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache, zl)
	if err != nil {
		return nil, err
	}

	probes := map[string]router.HealthProbe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	var (
		cache       services.SessionCache         = services.NoopSessionCache{}
		revocations services.TokenRevocationStore = services.NewMemoryTokenRevocationStore()
	)
	if rc != nil {
		cache = services.NewRedisSessionCache(rc, cfg.Cache.RedisPrefix, cfg.Cache.DefaultTTL)
		revocations = services.NewRedisTokenRevocationStore(rc, cfg.Cache.RedisPrefix)
		stopFuncs = append(stopFuncs,
			scheduler.NewCacheHealthMonitor(
				scheduler.PingFunc(func(ctx context.Context) error { return rc.Ping(ctx).Err() }),
				cfg.Cache.HealthInterval,
				zl,
			).Start(context.Background()),
			func() { _ = rc.Close() },
		)
		probes["cache"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	audienceRepo := repository.NewAudienceRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Initialize services
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
		revocations,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	zl.Info("token service initialized", zap.String("issuer", cfg.JWT.Issuer), zap.String("audience", cfg.JWT.Audience))

	tasteGraph := services.NewTasteGraphClient(cfg.TasteGraph.BaseURL, cfg.TasteGraph.APIKey, cfg.TasteGraph.Timeout)

	completer, err := services.NewCompleter(context.Background(), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	zl.Info("llm client initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	if cfg.Generation.AvatarEnabled {
		zl.Warn("avatar generation requested but no image provider is configured; audiences will have no image")
	}

	allowList := businessflow.AllowList(cfg.Generation.AllowedUsers)

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(userRepo, repository.NewTxRunner(db), tokenService, cache, allowList, cfg.Security.BcryptCost)
	audienceFlow := businessflow.NewAudienceFlow(audienceRepo, tasteGraph, services.DisabledAvatarGenerator{}, cache)
	contentFlow := businessflow.NewContentFlow(audienceRepo, jobRepo, completer, cache, allowList, cfg.LLM)
	jobFlow := businessflow.NewJobFlow(jobRepo, cache)
	catalogFlow := businessflow.NewCatalogFlow(tasteGraph)

	// Initialize handlers
	h := router.Handlers{
		Auth: handlers.NewAuthHandler(authFlow, handlers.SessionCookieConfig{
			Secure:   cfg.Security.SessionCookieSecure,
			SameSite: cfg.Security.SessionCookieSameSite,
		}),
		Audience: handlers.NewAudienceHandler(audienceFlow),
		Content:  handlers.NewContentHandler(contentFlow, jobFlow),
		Catalog:  handlers.NewCatalogHandler(catalogFlow),
	}

	authMiddleware := middleware.NewAuthMiddleware(authFlow)

	return &Application{
		router:    router.NewFiberRouter(cfg, zl, h, authMiddleware, probes),
		config:    cfg,
		log:       zl,
		stopFuncs: stopFuncs,
	}, nil
}
