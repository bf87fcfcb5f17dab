package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tokoluma/luma-backend/api/routes"
	"github.com/tokoluma/luma-backend/internal/auth"
	"github.com/tokoluma/luma-backend/internal/cart"
	category "github.com/tokoluma/luma-backend/internal/categories"
	checkoutsvc "github.com/tokoluma/luma-backend/internal/checkout"
	"github.com/tokoluma/luma-backend/internal/dashboard"
	"github.com/tokoluma/luma-backend/internal/orders"
	"github.com/tokoluma/luma-backend/internal/pricing"
	product "github.com/tokoluma/luma-backend/internal/products"
	"github.com/tokoluma/luma-backend/internal/users"
	"github.com/tokoluma/luma-backend/internal/wishlist"
	"github.com/tokoluma/luma-backend/pkg/auth/session"
	"github.com/tokoluma/luma-backend/pkg/config"
	"github.com/tokoluma/luma-backend/pkg/db"
	"github.com/tokoluma/luma-backend/pkg/logger"
	"github.com/tokoluma/luma-backend/pkg/metrics"
	"github.com/tokoluma/luma-backend/pkg/migrate"
	"github.com/tokoluma/luma-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	cartStore, err := cart.NewRedisStore(cart.RedisStoreParams{
		Client:  redisClient,
		SlotTTL: cfg.Cart.SlotTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartManager, err := cart.NewManager(cart.ManagerParams{Store: cartStore, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}
	cartManager.Subscribe(func(ev cart.Event) {
		cartMetrics.IncMutation(ev.Op)
	})

	priceCalc, err := pricing.NewCalculator(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing calculator", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())
	categoryRepo := category.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(users.ServiceParams{
		Repo:           userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	categoryService, err := category.NewService(category.ServiceParams{Repo: categoryRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}
	productService, err := product.NewService(product.ServiceParams{
		Repo:       productRepo,
		Categories: categoryRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlistRepo,
		ProductRepo:  productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orders.ServiceParams{Repo: ordersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:          dbClient,
		OrdersRepo:  ordersRepo,
		ProductRepo: productRepo,
		Pricing:     priceCalc,
		Logger:      logg,
		Metrics:     cartMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{DB: dbClient.DB()})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			userService,
			productService,
			productRepo,
			categoryService,
			orderService,
			checkoutService,
			wishlistService,
			dashboardService,
			cartManager,
			priceCalc,
			httpMetrics,
			registry,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
