package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	automationapp "github.com/osworks/backend/internal/application/automation"
	billingapp "github.com/osworks/backend/internal/application/billing"
	catalogapp "github.com/osworks/backend/internal/application/catalog"
	financeapp "github.com/osworks/backend/internal/application/finance"
	identityapp "github.com/osworks/backend/internal/application/identity"
	partnerapp "github.com/osworks/backend/internal/application/partner"
	serviceapp "github.com/osworks/backend/internal/application/service"
	"github.com/osworks/backend/internal/infrastructure/auth"
	"github.com/osworks/backend/internal/infrastructure/config"
	"github.com/osworks/backend/internal/infrastructure/event"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/osworks/backend/internal/infrastructure/messaging"
	"github.com/osworks/backend/internal/infrastructure/persistence"
	"github.com/osworks/backend/internal/infrastructure/persistence/tenant"
	"github.com/osworks/backend/internal/infrastructure/scheduler"
	"github.com/osworks/backend/internal/interfaces/http/handler"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/osworks/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	// Tenant scoping is not required: background jobs run with no
	// tenant in context and sweep across tenants.
	tenant.EnableAutoTenantFilter(db.DB, false)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	planRepo := persistence.NewCachedPlanRepository(persistence.NewGormPlanRepository(db.DB), redisClient)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	executionRepo := persistence.NewGormExecutionRepository(db.DB)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)

	// Outbound messaging
	var notifier messaging.Notifier
	if cfg.WhatsApp.Enabled {
		notifier = messaging.NewWhatsAppNotifier(cfg.WhatsApp)
		log.Info("whatsapp notifier enabled")
	} else {
		notifier = messaging.NoopNotifier{}
		log.Info("whatsapp disabled, using noop notifier")
	}

	// Subscription gating, used by HTTP middleware and by the
	// notification pipeline.
	subscriptionService := billingapp.NewSubscriptionService(subscriptionRepo, planRepo, userRepo, orderRepo)

	// Event bus and automation pipeline
	eventBus := event.NewInMemoryEventBus(log)

	processor := automationapp.NewExecutionProcessor(
		executionRepo, ruleRepo, orderRepo, ledgerRepo, clientRepo, notifier, subscriptionService, log)
	jobScheduler := scheduler.NewScheduler(scheduler.Config{
		Workers:    cfg.Automation.Workers,
		QueueSize:  cfg.Automation.QueueSize,
		JobTimeout: time.Minute,
	}, processor, log)

	dispatcher := automationapp.NewDispatcher(ruleRepo, executionRepo, jobScheduler, log)
	eventBus.Subscribe(dispatcher)

	ledgerOnFinalize := financeapp.NewOrderFinalizedHandler(ledgerRepo, eventBus, log)
	eventBus.Subscribe(ledgerOnFinalize)

	evaluator := automationapp.NewScheduledEvaluator(dispatcher, ruleRepo, ledgerRepo, orderRepo, log)
	evaluatorTrigger := scheduler.NewIntervalTrigger(cfg.Automation.EvaluateInterval, evaluator, log)

	pixResend := automationapp.NewPixResendJob(paymentRepo, ledgerRepo, clientRepo, notifier,
		subscriptionService,
		automationapp.PixResendConfig{
			Cooldown:     cfg.Automation.PixResendCooldown,
			MinLedgerAge: cfg.Automation.PixMinLedgerAge,
		}, log)
	pixTrigger := scheduler.NewDailyTrigger(cfg.Automation.PixResendHour, pixResend, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Automation.Enabled {
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("failed to start job scheduler", zap.Error(err))
		}
		if err := evaluatorTrigger.Start(ctx); err != nil {
			log.Fatal("failed to start rule evaluator", zap.Error(err))
		}
		if err := pixTrigger.Start(ctx); err != nil {
			log.Fatal("failed to start pix resend trigger", zap.Error(err))
		}
	} else {
		log.Info("automation pipeline disabled")
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, profileRepo, tenantRepo, jwtService, blacklist, log)
	tenantService := identityapp.NewTenantService(tenantRepo, profileRepo, userRepo, planRepo, subscriptionRepo, log)
	userService := identityapp.NewUserService(userRepo, profileRepo)
	profileService := identityapp.NewProfileService(profileRepo)
	clientService := partnerapp.NewClientService(clientRepo)
	productService := catalogapp.NewProductService(productRepo)
	orderService := serviceapp.NewOrderService(orderRepo, clientRepo, productRepo, eventBus)
	financeService := financeapp.NewFinanceService(ledgerRepo, paymentRepo, eventBus)
	ruleService := automationapp.NewRuleService(ruleRepo)
	executionService := automationapp.NewExecutionService(executionRepo)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
	)

	gates := middleware.NewGates(subscriptionService, log)
	authHandler := handler.NewAuthHandler(authService, tenantService)

	r := router.New(engine)
	r.Public(authHandler.RegisterPublicRoutes)
	r.Protected(
		middleware.Auth(jwtService, blacklist, log),
		middleware.TenantGuard(tenantRepo, log),
		gates.ReadOnly(),
	)
	r.Register(
		authHandler,
		handler.NewUserHandler(userService, gates),
		handler.NewProfileHandler(profileService),
		handler.NewClientHandler(clientService),
		handler.NewProductHandler(productService),
		handler.NewOrderHandler(orderService, gates),
		handler.NewFinanceHandler(financeService, gates),
		handler.NewAutomationHandler(ruleService, executionService, gates),
		handler.NewSubscriptionHandler(subscriptionService),
	)
	r.Setup()

	handler.NewSystemHandler(db.DB).RegisterRoutes(engine)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if cfg.Automation.Enabled {
		_ = evaluatorTrigger.Stop(shutdownCtx)
		_ = pixTrigger.Stop(shutdownCtx)
		if err := jobScheduler.Stop(shutdownCtx); err != nil {
			log.Error("scheduler did not drain in time", zap.Error(err))
		}
	}

	log.Info("server exited gracefully")
}
