package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelierhq/atelier/internal"
	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/billing"
	"github.com/atelierhq/atelier/internal/bootstrap"
	"github.com/atelierhq/atelier/internal/cache"
	"github.com/atelierhq/atelier/internal/email"
	adminhandler "github.com/atelierhq/atelier/internal/handler/admin"
	"github.com/atelierhq/atelier/internal/handler/api"
	"github.com/atelierhq/atelier/internal/handler/webhook"
	"github.com/atelierhq/atelier/internal/middleware"
	"github.com/atelierhq/atelier/internal/postgres"
	"github.com/atelierhq/atelier/internal/router"
	"github.com/atelierhq/atelier/internal/routes"
	"github.com/atelierhq/atelier/internal/service"
	"github.com/atelierhq/atelier/internal/shipping"
	"github.com/atelierhq/atelier/internal/storage"
	"github.com/atelierhq/atelier/internal/stylist"
	"github.com/atelierhq/atelier/internal/telemetry"
)

const (
	cacheTTL        = 15 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	cleanupSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer cleanupSentry()

	// Database
	logger.Info("connecting to database")
	db, err := postgres.Connect(ctx, cfg.DatabaseUrl, logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	logger.Info("running database migrations")
	if err := internal.RunMigrations(db.StdDB()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Redis; the server runs without it, losing idempotent product create
	// and the storefront list cache.
	var productCache service.Cache
	var redisCache *cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err = cache.Connect(ctx, cfg.RedisAddr, "atelier", cacheTTL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisCache.Close()
		productCache = redisCache
	} else {
		logger.Warn("REDIS_ADDR not set, idempotency keys and list cache disabled")
	}

	// Stores
	productStore := postgres.NewProductStore(db)
	inventoryStore := postgres.NewInventoryStore(db)
	cartStore := postgres.NewCartStore(db)
	orderStore := postgres.NewOrderStore(db)
	promoStore := postgres.NewPromoStore(db)
	customerStore := postgres.NewCustomerStore(db)
	teamStore := postgres.NewTeamStore(db)
	settingsStore := postgres.NewSettingsStore(db)
	auditStore := postgres.NewAuditStore(db)
	notificationStore := postgres.NewNotificationStore(db)
	transcriptStore := postgres.NewTranscriptStore(db)

	// External providers
	billingProvider, err := billing.NewStripeProvider(billing.StripeConfig{
		APIKey:        cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	})
	if err != nil {
		return fmt.Errorf("stripe initialization failed: %w", err)
	}

	fileStore, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	emailService := email.NewService(
		email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
		}, logger),
		notificationStore,
		cfg.Email.From,
		cfg.Email.FromName,
		logger,
	)

	var stylistClient *stylist.Client
	if cfg.Stylist.APIKey != "" {
		stylistClient = stylist.NewClient(cfg.Stylist.APIKey, cfg.Stylist.BaseURL, cfg.Stylist.Model)
	} else {
		logger.Warn("STYLIST_API_KEY not set, assistant disabled")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	// Services
	settingsService := service.NewSettingsService(settingsStore)
	productService := service.NewProductService(productStore, productCache, auditStore, logger)
	inventoryService := service.NewInventoryService(inventoryStore)
	cartService := service.NewCartService(cartStore)
	promoService := service.NewPromoService(promoStore)
	orderService := service.NewOrderService(
		orderStore,
		cartStore,
		promoService,
		shipping.NewFlatRateProvider(settingsService),
		emailService,
		billingProvider,
		auditStore,
		logger,
	)
	checkoutService := service.NewCheckoutService(billingProvider, orderService, settingsStore, logger)
	customerService := service.NewCustomerService(customerStore)
	teamService := service.NewTeamService(teamStore, tokens)
	stylistService := service.NewStylistService(stylistClient, transcriptStore, settingsStore, logger)
	auditService := service.NewAuditService(auditStore)

	if err := bootstrap.EnsureOwner(ctx, teamStore, cfg.Bootstrap, logger); err != nil {
		return err
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics(registry, "atelier")
	telemetry.SetBusinessMetrics(telemetry.NewBusinessMetrics(registry, "atelier"))

	// Router
	corsOrigins := []string{"*"}
	if cfg.Env == "production" && cfg.BaseURL != "" {
		corsOrigins = []string{cfg.BaseURL}
	}

	r := router.New(
		middleware.Recover,
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		middleware.AccessLog,
		httpMetrics.Middleware,
		middleware.CORS(corsOrigins),
	)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		body := map[string]any{"status": "ok"}
		if redisCache != nil {
			if err := redisCache.Ping(req.Context()); err != nil {
				http.Error(w, "redis unreachable", http.StatusServiceUnavailable)
				return
			}
			body["cache"] = redisCache.Stats()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	})
	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		ProductHandler: api.NewProductHandler(productService),
		CartHandler:    api.NewCartHandler(cartService),
		OrderHandler:   api.NewOrderHandler(orderService),
		PaymentHandler: api.NewPaymentHandler(checkoutService),
		PromoHandler:   api.NewPromoHandler(promoService),
		StylistHandler: api.NewStylistHandler(stylistService),
	})

	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		Tokens:    tokens,
		TeamStore: teamStore,

		AuthHandler:      adminhandler.NewAuthHandler(teamService),
		ProductHandler:   adminhandler.NewProductHandler(productService),
		InventoryHandler: adminhandler.NewInventoryHandler(inventoryService),
		OrderHandler:     adminhandler.NewOrderHandler(orderService),
		CustomerHandler:  adminhandler.NewCustomerHandler(customerService),
		TeamHandler:      adminhandler.NewTeamHandler(teamService),
		SettingsHandler:  adminhandler.NewSettingsHandler(settingsService),
		UploadHandler:    adminhandler.NewUploadHandler(fileStore),
		AuditHandler:     adminhandler.NewAuditHandler(auditService),
	})

	routes.RegisterWebhookRoutes(r, routes.WebhookDeps{
		PaymentsHandler: webhook.NewPaymentsHandler(billingProvider, checkoutService),
		MSG91Handler:    webhook.NewMSG91Handler(cfg.MSG91.WebhookKey, notificationStore),
	})

	// Serve
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
