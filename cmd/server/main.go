package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	analyticsapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/analytics"
	catalogapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/catalog"
	collectionapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/collection"
	identityapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/identity"
	jobsapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/jobs"
	marketsyncapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/marketsync"
	notificationapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/notification"
	orderapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/order"
	supplierapp "github.com/sunwoo0067/yooni-03-sub011/internal/application/supplier"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/auth"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/cache"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/event"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/logger"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/marketplace"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/persistence"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/scheduler"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/storage"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/telemetry"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/wholesaler"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/handler"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/router"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/ws"
)

// version is stamped at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting dropshipping backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry providers. Both degrade to no-ops when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	meter := meterProvider.Meter("yooni-backend")
	pipelineMetrics, err := telemetry.NewPipelineMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create pipeline metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Database
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
	log.Info("Database connected")

	// Redis-backed cache and token blacklist. Both fall back to process
	// memory when Redis is not reachable, so a dev box runs without it.
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log), cache.WithInMemoryFallback(true))

	var blacklist auth.TokenBlacklist
	redisClient, err := cacheFactory.NewRedisClient()
	if err != nil {
		log.Warn("Redis unavailable, revoked tokens are tracked in memory only", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	snapshotCache, err := cacheFactory.CreateCache("dashboard")
	if err != nil {
		log.Fatal("Failed to create dashboard cache", zap.Error(err))
	}
	defer func() {
		if err := snapshotCache.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	historyRepo := persistence.NewGormPriceHistoryRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// External platform adapters, built from config
	sources := buildSources(cfg, log)
	channels := buildChannels(cfg, log)

	var mirror storage.ImageMirror = storage.NewNoopImageMirror()
	if cfg.Storage.Enabled && cfg.Collection.ImageMirrorEnabled {
		mirror, err = storage.NewS3ImageMirror(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image mirror", zap.Error(err))
		}
		log.Info("Image mirroring enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	notificationEvents := notificationapp.NewEventHandler(notificationRepo, log)
	eventBus.Subscribe(notificationEvents)

	shipmentEvents := marketsyncapp.NewShipmentHandler(channels, log)
	eventBus.Subscribe(shipmentEvents)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)

	productService := catalogapp.NewProductService(productRepo, historyRepo, eventBus, log)
	accountService := supplierapp.NewAccountService(accountRepo, log)
	collectionService := collectionapp.NewService(
		accountRepo, productRepo, historyRepo, sources, mirror, eventBus, cfg.Collection.PageSize, log)
	listingService := marketsyncapp.NewListingService(listingRepo, productRepo, log)
	syncService := marketsyncapp.NewSyncService(
		listingRepo, productRepo, channels, cfg.Sync.StaleAfter, cfg.Sync.BatchSize, log)
	orderService := orderapp.NewOrderService(orderRepo, eventBus, log)
	pullService := orderapp.NewPullService(
		orderRepo, listingRepo, productRepo, channels, eventBus, 0, cfg.Sync.BatchSize, log)
	forwardService := orderapp.NewForwardService(orderRepo, productRepo, sources, eventBus, cfg.Sync.BatchSize, log)
	notificationService := notificationapp.NewService(notificationRepo, log)
	dashboardService := analyticsapp.NewDashboardService(
		orderRepo, productRepo, listingRepo, notificationRepo, snapshotCache, cfg.Dashboard.CacheTTL, log)

	// Bootstrap admin for a fresh install
	if adminPassword := os.Getenv("YOONI_ADMIN_PASSWORD"); adminPassword != "" {
		adminUsername := os.Getenv("YOONI_ADMIN_USERNAME")
		if adminUsername == "" {
			adminUsername = "admin"
		}
		if err := userService.EnsureAdmin(ctx, adminUsername, adminPassword); err != nil {
			log.Fatal("Failed to ensure admin account", zap.Error(err))
		}
	}

	// Dashboard push over WebSocket
	hub := ws.NewHub(log)
	go hub.Run()
	defer hub.Stop()
	dashboardService.SetBroadcaster(hub)

	// Background job pipeline
	if cfg.Scheduler.Enabled {
		executor := jobsapp.NewExecutor(
			collectionService,
			syncService,
			pullService,
			forwardService,
			dashboardService,
			notificationService,
			notificationEvents,
			pipelineMetrics,
			0,
			log,
		)

		sched := scheduler.NewScheduler(cfg.Scheduler, executor, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := sched.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		trigger, err := scheduler.NewTrigger(
			cfg.Collection, cfg.Sync, cfg.Dashboard, sched, collectionService, syncService, log)
		if err != nil {
			log.Fatal("Failed to create schedule trigger", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start schedule trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping schedule trigger", zap.Error(err))
			}
		}()

		log.Info("Scheduler started",
			zap.Int("workers", cfg.Scheduler.WorkerCount),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// HTTP layer
	engine := router.New(router.Dependencies{
		Config:    cfg,
		Logger:    log,
		Meter:     meter,
		Validator: authService,
		Hub:       hub,
	}, router.Handlers{
		System:       handler.NewSystemHandler(db, version),
		Auth:         handler.NewAuthHandler(authService, userService),
		Users:        handler.NewUserHandler(userService),
		Products:     handler.NewProductHandler(productService),
		Suppliers:    handler.NewSupplierHandler(accountService, collectionService),
		Listings:     handler.NewListingHandler(listingService, syncService),
		Orders:       handler.NewOrderHandler(orderService, pullService, forwardService),
		Notification: handler.NewNotificationHandler(notificationService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildSources constructs the wholesaler adapters that are enabled and
// fully configured
func buildSources(cfg *config.Config, log *zap.Logger) map[integration.SourceCode]integration.WholesaleSource {
	sources := make(map[integration.SourceCode]integration.WholesaleSource)

	if cfg.OwnerClan.Enabled {
		ownerClanCfg := wholesaler.NewOwnerClanConfig(cfg.OwnerClan.APIKey, cfg.OwnerClan.APISecret)
		applyWholesalerOverrides(&ownerClanCfg.APIBaseURL, &ownerClanCfg.TimeoutSeconds, cfg.OwnerClan)
		adapter, err := wholesaler.NewOwnerClanAdapter(ownerClanCfg)
		if err != nil {
			log.Warn("OwnerClan adapter disabled", zap.Error(err))
		} else {
			sources[integration.SourceCodeOwnerClan] = adapter
		}
	}

	if cfg.Domeggook.Enabled {
		domeggookCfg := wholesaler.NewDomeggookConfig(cfg.Domeggook.APIKey)
		applyWholesalerOverrides(&domeggookCfg.APIBaseURL, &domeggookCfg.TimeoutSeconds, cfg.Domeggook)
		adapter, err := wholesaler.NewDomeggookAdapter(domeggookCfg)
		if err != nil {
			log.Warn("Domeggook adapter disabled", zap.Error(err))
		} else {
			sources[integration.SourceCodeDomeggook] = adapter
		}
	}

	log.Info("Wholesaler adapters configured", zap.Int("count", len(sources)))
	return sources
}

// buildChannels constructs the marketplace adapters that are enabled and
// fully configured
func buildChannels(cfg *config.Config, log *zap.Logger) map[integration.ChannelCode]integration.MarketplaceChannel {
	channels := make(map[integration.ChannelCode]integration.MarketplaceChannel)

	if cfg.Coupang.Enabled {
		coupangCfg := marketplace.NewCoupangConfig(cfg.Coupang.AccessKey, cfg.Coupang.SecretKey, cfg.Coupang.VendorID)
		applyChannelOverrides(&coupangCfg.APIBaseURL, &coupangCfg.TimeoutSeconds, cfg.Coupang)
		adapter, err := marketplace.NewCoupangAdapter(coupangCfg)
		if err != nil {
			log.Warn("Coupang adapter disabled", zap.Error(err))
		} else {
			channels[integration.ChannelCodeCoupang] = adapter
		}
	}

	if cfg.SmartStore.Enabled {
		smartStoreCfg := marketplace.NewSmartStoreConfig(cfg.SmartStore.AccessKey, cfg.SmartStore.SecretKey)
		applyChannelOverrides(&smartStoreCfg.APIBaseURL, &smartStoreCfg.TimeoutSeconds, cfg.SmartStore)
		adapter, err := marketplace.NewSmartStoreAdapter(smartStoreCfg)
		if err != nil {
			log.Warn("SmartStore adapter disabled", zap.Error(err))
		} else {
			channels[integration.ChannelCodeSmartStore] = adapter
		}
	}

	log.Info("Marketplace adapters configured", zap.Int("count", len(channels)))
	return channels
}

func applyWholesalerOverrides(baseURL *string, timeoutSeconds *int, cfg config.WholesalerConfig) {
	if cfg.BaseURL != "" {
		*baseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		*timeoutSeconds = int(cfg.Timeout.Seconds())
	}
}

func applyChannelOverrides(baseURL *string, timeoutSeconds *int, cfg config.ChannelConfig) {
	if cfg.BaseURL != "" {
		*baseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		*timeoutSeconds = int(cfg.Timeout.Seconds())
	}
}
