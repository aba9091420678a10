package main

import (
	"context"
	"net/http"
	"os"

	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/api/routes"
	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/auth"
	"github.com/agropazar/agropazar-backend/internal/companies"
	"github.com/agropazar/agropazar-backend/internal/dashboard"
	"github.com/agropazar/agropazar-backend/internal/documents"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/internal/orders"
	"github.com/agropazar/agropazar-backend/internal/products"
	"github.com/agropazar/agropazar-backend/internal/uploads"
	"github.com/agropazar/agropazar-backend/internal/users"
	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/metrics"
	"github.com/agropazar/agropazar-backend/pkg/migrate"
	"github.com/agropazar/agropazar-backend/pkg/redis"
	"github.com/agropazar/agropazar-backend/pkg/storage"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	responses.SetDebug(!cfg.App.IsProd())

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth throttling disabled")
	}

	store, err := storage.NewLocal(cfg.Uploads.Root)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	farmRepo := farms.NewRepository(conn)
	companyRepo := companies.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	appRepo := applications.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)

	notificationService, err := notifications.NewService(notifications.NewRepository(conn), userRepo)
	if err != nil {
		fatal(logg, "failed to create notifications service", err)
	}
	applicationService, err := applications.NewService(conn, appRepo, notificationService, store, logg)
	if err != nil {
		fatal(logg, "failed to create applications service", err)
	}
	farmService, err := farms.NewService(farmRepo, store)
	if err != nil {
		fatal(logg, "failed to create farms service", err)
	}
	companyService, err := companies.NewService(companyRepo, store)
	if err != nil {
		fatal(logg, "failed to create companies service", err)
	}
	productService, err := products.NewService(conn, productRepo, farmRepo, applicationService)
	if err != nil {
		fatal(logg, "failed to create products service", err)
	}
	orderService, err := orders.NewService(conn, orderRepo, farmRepo, companyRepo, productRepo, notificationService)
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}
	dashboardService, err := dashboard.NewService(conn, userRepo, farmRepo, companyRepo, productRepo, orderRepo, appRepo, notificationService)
	if err != nil {
		fatal(logg, "failed to create dashboard service", err)
	}
	documentService, err := documents.NewService(store, appRepo)
	if err != nil {
		fatal(logg, "failed to create documents service", err)
	}
	authService, err := auth.NewService(conn, userRepo, farmRepo, companyRepo, applicationService, cfg.JWT, cfg.Password, logg)
	if err != nil {
		fatal(logg, "failed to create auth service", err)
	}
	userService, err := users.NewService(userRepo, notificationService, logg)
	if err != nil {
		fatal(logg, "failed to create users service", err)
	}
	uploadService := uploads.NewService(store, logg)

	metricsRegistry := prometheus.NewRegistry()
	requestMetrics := metrics.NewRequestMetrics(metricsRegistry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:              cfg,
			Logger:              logg,
			DB:                  dbClient,
			Redis:               redisClient,
			Metrics:             requestMetrics,
			MetricsHandler:      promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}),
			UserRepo:            userRepo,
			AppRepo:             appRepo,
			AuthService:         authService,
			UserService:         userService,
			FarmService:         farmService,
			CompanyService:      companyService,
			ProductService:      productService,
			ApplicationService:  applicationService,
			OrderService:        orderService,
			DashboardService:    dashboardService,
			DocumentService:     documentService,
			NotificationService: notificationService,
			UploadService:       uploadService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
