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

	"github.com/sushka2023/sushka-shop-backend/api/controllers"
	"github.com/sushka2023/sushka-shop-backend/api/routes"
	authsvc "github.com/sushka2023/sushka-shop-backend/internal/auth"
	"github.com/sushka2023/sushka-shop-backend/internal/basket"
	"github.com/sushka2023/sushka-shop-backend/internal/catalog"
	"github.com/sushka2023/sushka-shop-backend/internal/favorites"
	"github.com/sushka2023/sushka-shop-backend/internal/notifications"
	"github.com/sushka2023/sushka-shop-backend/internal/orders"
	"github.com/sushka2023/sushka-shop-backend/internal/users"
	"github.com/sushka2023/sushka-shop-backend/internal/warehouses"
	"github.com/sushka2023/sushka-shop-backend/pkg/auth/session"
	"github.com/sushka2023/sushka-shop-backend/pkg/cache"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	"github.com/sushka2023/sushka-shop-backend/pkg/db"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/mailer"
	"github.com/sushka2023/sushka-shop-backend/pkg/migrate"
	"github.com/sushka2023/sushka-shop-backend/pkg/novaposhta"
	"github.com/sushka2023/sushka-shop-backend/pkg/redis"
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

	responseCache, err := cache.New(redisClient, cfg.Cache)
	if err != nil {
		logg.Error(context.Background(), "failed to create response cache", err)
		os.Exit(1)
	}

	mailClient, err := mailer.NewClient(context.Background(), cfg.Mail, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail client", err)
		os.Exit(1)
	}

	npClient, err := novaposhta.NewClient(context.Background(), cfg.NovaPoshta, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create nova poshta client", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	usersRepo := users.NewRepository(gdb)
	basketRepo := basket.NewRepository(gdb)
	favoritesRepo := favorites.NewRepository(gdb)
	catalogRepo := catalog.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	authRepo := authsvc.NewRepository(gdb)
	warehousesRepo := warehouses.NewRepository(gdb)

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	basketService, err := basket.NewService(basket.ServiceParams{
		Repo:   basketRepo,
		Tx:     dbClient,
		Prices: catalogService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create basket service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		Repo:     favoritesRepo,
		Products: catalogService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Sender: mailClient,
		Config: cfg.Mail,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}
	defer dispatcher.Close()

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:       ordersRepo,
		BasketRepo: basketRepo,
		Tx:         dbClient,
		Prices:     catalogService,
		Users:      usersRepo,
		Notifier:   dispatcher,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Users:     usersRepo,
		Baskets:   basketRepo,
		Favorites: favoritesRepo,
		Repo:      authRepo,
		Tx:        dbClient,
		Sessions:  sessionManager,
		JWT:       cfg.JWT,
		Password:  cfg.Password,
		Mail:      mailClient,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	warehousesService, err := warehouses.NewService(warehouses.ServiceParams{
		Repo:   warehousesRepo,
		Client: npClient,
		Cities: cfg.NovaPoshta.Cities,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouses service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Sessions: sessionManager,
		Cache:    responseCache,
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		Auth:       authService,
		Catalog:    catalogService,
		Basket:     basketService,
		Favorites:  favoritesService,
		Orders:     ordersService,
		Warehouses: warehousesService,
		Users:      usersRepo,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
