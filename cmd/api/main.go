package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/sterlingmedical/medsupply-backend/api/routes"
	"github.com/sterlingmedical/medsupply-backend/internal/auth"
	"github.com/sterlingmedical/medsupply-backend/internal/banners"
	"github.com/sterlingmedical/medsupply-backend/internal/cart"
	"github.com/sterlingmedical/medsupply-backend/internal/customers"
	"github.com/sterlingmedical/medsupply-backend/internal/notifications"
	"github.com/sterlingmedical/medsupply-backend/internal/orders"
	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/internal/purchases"
	"github.com/sterlingmedical/medsupply-backend/internal/quotations"
	"github.com/sterlingmedical/medsupply-backend/internal/receipts"
	"github.com/sterlingmedical/medsupply-backend/internal/reports"
	"github.com/sterlingmedical/medsupply-backend/internal/settings"
	"github.com/sterlingmedical/medsupply-backend/internal/users"
	"github.com/sterlingmedical/medsupply-backend/pkg/auth/session"
	"github.com/sterlingmedical/medsupply-backend/pkg/config"
	"github.com/sterlingmedical/medsupply-backend/pkg/db"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
	"github.com/sterlingmedical/medsupply-backend/pkg/metrics"
	"github.com/sterlingmedical/medsupply-backend/pkg/migrate"
	"github.com/sterlingmedical/medsupply-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(dbClient, redisClient, sessionManager, cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(dbClient *db.Client, redisClient *redis.Client, sessionManager *session.Manager, cfg *config.Config) (routes.Services, error) {
	var svcs routes.Services

	gdb := dbClient.DB()
	productsRepo := products.NewRepository(gdb)
	usersRepo := users.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	customersRepo := customers.NewRepository(gdb)

	productService, err := products.NewService(productsRepo)
	if err != nil {
		return svcs, err
	}

	cartStore, err := cart.NewRedisStore(redisClient)
	if err != nil {
		return svcs, err
	}
	cartService, err := cart.NewService(cartStore, productService)
	if err != nil {
		return svcs, err
	}

	orderService, err := orders.NewService(dbClient, ordersRepo, productsRepo, cartStore)
	if err != nil {
		return svcs, err
	}

	customerService, err := customers.NewService(customersRepo)
	if err != nil {
		return svcs, err
	}

	purchaseService, err := purchases.NewService(dbClient, purchases.NewRepository(gdb), productsRepo)
	if err != nil {
		return svcs, err
	}

	quotationService, err := quotations.NewService(quotations.NewRepository(gdb), productsRepo, customersRepo, orderService)
	if err != nil {
		return svcs, err
	}

	receiptService, err := receipts.NewService(dbClient, receipts.NewRepository(gdb), orderService)
	if err != nil {
		return svcs, err
	}

	bannerService, err := banners.NewService(banners.NewRepository(gdb))
	if err != nil {
		return svcs, err
	}

	settingsService, err := settings.NewService(settings.NewRepository(gdb))
	if err != nil {
		return svcs, err
	}

	reportService, err := reports.NewService(reports.NewRepository(gdb), settingsService)
	if err != nil {
		return svcs, err
	}

	notificationService, err := notifications.NewService(notifications.NewRepository(gdb))
	if err != nil {
		return svcs, err
	}

	authService, err := auth.NewService(usersRepo, sessionManager, cfg.JWT, cfg.Password)
	if err != nil {
		return svcs, err
	}

	svcs = routes.Services{
		Auth:          authService,
		Products:      productService,
		Cart:          cartService,
		Orders:        orderService,
		Customers:     customerService,
		Purchases:     purchaseService,
		Quotations:    quotationService,
		Receipts:      receiptService,
		Banners:       bannerService,
		Settings:      settingsService,
		Reports:       reportService,
		Notifications: notificationService,
	}
	return svcs, nil
}
