package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shoplytics/backend/internal/application/abandonment"
	"github.com/shoplytics/backend/internal/application/identity"
	"github.com/shoplytics/backend/internal/application/ingestion"
	"github.com/shoplytics/backend/internal/application/insights"
	"github.com/shoplytics/backend/internal/infrastructure/auth"
	"github.com/shoplytics/backend/internal/infrastructure/cache"
	"github.com/shoplytics/backend/internal/infrastructure/config"
	"github.com/shoplytics/backend/internal/infrastructure/logger"
	"github.com/shoplytics/backend/internal/infrastructure/persistence"
	"github.com/shoplytics/backend/internal/infrastructure/scheduler"
	"github.com/shoplytics/backend/internal/interfaces/http/handler"
	"github.com/shoplytics/backend/internal/interfaces/http/middleware"
	"github.com/shoplytics/backend/internal/interfaces/http/router"
)

//	@title			Shoplytics API
//	@version		1.0
//	@description	Multi-tenant Shopify ingestion and insights service

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting Shoplytics backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Read cache. The cache is advisory: if Redis is unreachable the service
	// still starts, falling back to an in-process store.
	var cacheStore cache.Store
	redisStore, err := cache.NewRedisStore(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		cacheStore = cache.NewMemoryStore()
	} else {
		log.Info("Redis cache connected", zap.String("addr", cfg.Redis.Addr()))
		cacheStore = redisStore
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			log.Error("Error closing cache store", zap.Error(err))
		}
	}()

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	checkoutRepo := persistence.NewGormCheckoutRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	tenantService := identity.NewTenantService(tenantRepo, jwtService, log)
	ingestionService := ingestion.NewService(customerRepo, productRepo, orderRepo, cartRepo, checkoutRepo, cacheStore, log)
	insightsService := insights.NewService(customerRepo, productRepo, orderRepo, cartRepo, checkoutRepo, cacheStore, cfg.Cache, log)
	abandonmentService := abandonment.NewService(cartRepo, checkoutRepo, cacheStore, cfg.Abandonment.Window, log)

	// Start the abandonment sweep scheduler
	abandonmentScheduler := scheduler.NewAbandonmentScheduler(abandonmentService, log, cfg.Abandonment)
	if err := abandonmentScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start abandonment scheduler", zap.Error(err))
	}
	defer func() {
		if err := abandonmentScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping abandonment scheduler", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(tenantService)
	webhookHandler := handler.NewWebhookHandler(ingestionService)
	ingestHandler := handler.NewIngestHandler(ingestionService)
	insightsHandler := handler.NewInsightsHandler(insightsService)
	systemHandler := handler.NewSystemHandler(db)

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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoints (outside API versioning)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Shopify webhook endpoints. Authenticated by HMAC signature, not JWT,
	// so they live outside the versioned API group.
	webhookGroup := engine.Group("/webhook")
	webhookGroup.Use(middleware.WebhookAuthMiddleware(middleware.WebhookMiddlewareConfig{
		Tenants: tenantRepo,
		Logger:  log,
	}))
	webhookGroup.POST("/customers", webhookHandler.Customers)
	webhookGroup.POST("/products", webhookHandler.Products)
	webhookGroup.POST("/orders", webhookHandler.Orders)
	webhookGroup.POST("/carts", webhookHandler.Carts)
	webhookGroup.POST("/checkouts", webhookHandler.Checkouts)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})

	// Public auth endpoints
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	// Account endpoints requiring authentication
	accountRoutes := router.NewDomainGroup("account", "/auth")
	accountRoutes.Use(jwtAuth)
	accountRoutes.GET("/webhook-info", authHandler.WebhookInfo)

	// Dashboard read endpoints
	dashboardRoutes := router.NewDomainGroup("dashboard", "")
	dashboardRoutes.Use(jwtAuth)
	dashboardRoutes.GET("/customers", insightsHandler.ListCustomers)
	dashboardRoutes.GET("/products", insightsHandler.ListProducts)
	dashboardRoutes.GET("/orders", insightsHandler.ListOrders)
	dashboardRoutes.GET("/insights", insightsHandler.Insights)

	// Bulk backfill endpoints
	ingestRoutes := router.NewDomainGroup("ingest", "/ingest")
	ingestRoutes.Use(jwtAuth)
	ingestRoutes.POST("/customers", ingestHandler.Customers)
	ingestRoutes.POST("/products", ingestHandler.Products)
	ingestRoutes.POST("/orders", ingestHandler.Orders)
	ingestRoutes.POST("/carts", ingestHandler.Carts)
	ingestRoutes.POST("/checkouts", ingestHandler.Checkouts)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(authRoutes).
		Register(accountRoutes).
		Register(dashboardRoutes).
		Register(ingestRoutes).
		Register(systemRoutes)

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
