package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kwlc-church/kwlc-backend/api/routes"
	authsvc "github.com/kwlc-church/kwlc-backend/internal/auth"
	"github.com/kwlc-church/kwlc-backend/internal/books"
	"github.com/kwlc-church/kwlc-backend/internal/branches"
	"github.com/kwlc-church/kwlc-backend/internal/cart"
	"github.com/kwlc-church/kwlc-backend/internal/checkout"
	"github.com/kwlc-church/kwlc-backend/internal/donations"
	"github.com/kwlc-church/kwlc-backend/internal/events"
	"github.com/kwlc-church/kwlc-backend/internal/ministers"
	"github.com/kwlc-church/kwlc-backend/internal/orders"
	"github.com/kwlc-church/kwlc-backend/internal/users"
	"github.com/kwlc-church/kwlc-backend/pkg/auth/session"
	"github.com/kwlc-church/kwlc-backend/pkg/config"
	"github.com/kwlc-church/kwlc-backend/pkg/db"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/metrics"
	"github.com/kwlc-church/kwlc-backend/pkg/migrate"
	"github.com/kwlc-church/kwlc-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
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

	gdb := dbClient.DB()
	booksRepo := books.NewRepository(gdb)
	branchesRepo := branches.NewRepository(gdb)
	ministersRepo := ministers.NewRepository(gdb)
	eventsRepo := events.NewRepository(gdb)
	donationsRepo := donations.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	usersRepo := users.NewRepository(gdb)

	cartStore, err := cart.NewStore(redisClient, cfg.Cart, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	services, err := buildServices(serviceDeps{
		cfg:       cfg,
		logg:      logg,
		db:        dbClient,
		sessions:  sessionManager,
		cartStore: cartStore,
		books:     booksRepo,
		branches:  branchesRepo,
		ministers: ministersRepo,
		events:    eventsRepo,
		donations: donationsRepo,
		orders:    ordersRepo,
		users:     usersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Registry:    registry,
			HTTPMetrics: httpMetrics,
			Auth:        services.auth,
			Users:       services.users,
			Books:       services.books,
			Branches:    services.branches,
			Ministers:   services.ministers,
			Events:      services.events,
			Donations:   services.donations,
			Orders:      services.orders,
			Cart:        services.cart,
			Checkout:    services.checkout,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

type serviceDeps struct {
	cfg       *config.Config
	logg      *logger.Logger
	db        *db.Client
	sessions  *session.Manager
	cartStore *cart.Store
	books     *books.Repository
	branches  *branches.Repository
	ministers *ministers.Repository
	events    *events.Repository
	donations *donations.Repository
	orders    *orders.Repository
	users     *users.Repository
}

type serviceSet struct {
	auth      authsvc.Service
	users     users.Service
	books     books.Service
	branches  branches.Service
	ministers ministers.Service
	events    events.Service
	donations donations.Service
	orders    orders.Service
	cart      cart.Service
	checkout  checkout.Service
}

func buildServices(deps serviceDeps) (*serviceSet, error) {
	var set serviceSet
	var err error

	if set.books, err = books.NewService(deps.books); err != nil {
		return nil, err
	}
	if set.branches, err = branches.NewService(deps.branches); err != nil {
		return nil, err
	}
	if set.ministers, err = ministers.NewService(deps.ministers); err != nil {
		return nil, err
	}
	if set.events, err = events.NewService(deps.events); err != nil {
		return nil, err
	}
	if set.donations, err = donations.NewService(deps.donations); err != nil {
		return nil, err
	}
	if set.orders, err = orders.NewService(deps.orders); err != nil {
		return nil, err
	}
	if set.users, err = users.NewService(deps.users, deps.cfg.Password); err != nil {
		return nil, err
	}
	if set.auth, err = authsvc.NewService(deps.users, deps.sessions, deps.cfg.JWT, deps.logg); err != nil {
		return nil, err
	}
	if set.cart, err = cart.NewService(deps.cartStore, deps.books); err != nil {
		return nil, err
	}
	if set.checkout, err = checkout.NewService(deps.db, deps.cartStore, deps.books, deps.orders, deps.donations); err != nil {
		return nil, err
	}

	return &set, nil
}
